package ratelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
)

// Decoder turns log lines into records incrementally. Lines before the
// first header, and between a separator and the next header, are skipped.
type Decoder struct {
	cur   *Record
	body  []string
	ready []Record
}

// Line feeds one line, without its trailing newline.
func (d *Decoder) Line(line string) {
	line = strings.TrimSuffix(line, "\r")
	if d.cur == nil {
		if rec, ok := parseHeader(line); ok {
			d.cur = &rec
			d.body = d.body[:0]
		}
		return
	}
	if line == Separator {
		d.finish()
		return
	}
	d.body = append(d.body, line)
}

// Take returns and clears the records completed so far.
func (d *Decoder) Take() []Record {
	out := d.ready
	d.ready = nil
	return out
}

// Flush completes a record left open at end of input and returns all
// pending records.
func (d *Decoder) Flush() []Record {
	if d.cur != nil {
		d.finish()
	}
	return d.Take()
}

// Reset drops any partial record.
func (d *Decoder) Reset() {
	d.cur = nil
	d.body = d.body[:0]
	d.ready = nil
}

func (d *Decoder) finish() {
	rec := *d.cur
	rec.Input = strings.Join(d.body, "\n")
	d.ready = append(d.ready, rec)
	d.cur = nil
	d.body = d.body[:0]
}

// Decode parses every record in r.
func Decode(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	var d Decoder
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 || err == nil {
			d.Line(strings.TrimSuffix(line, "\n"))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading log: %w", err)
		}
	}
	return d.Flush(), nil
}

// Load reads all records from the log at path. A missing file is an empty
// log, not an error.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Filter returns the records of the given family. A nil family keeps all.
func Filter(records []Record, family *detect.Family) []Record {
	if family == nil {
		return records
	}
	var out []Record
	for _, r := range records {
		if r.Family == *family {
			out = append(out, r)
		}
	}
	return out
}

// Tail returns the last n records. n <= 0 returns all of them.
func Tail(records []Record, n int) []Record {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[len(records)-n:]
}
