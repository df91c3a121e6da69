// Package ratelog reads and writes the append-only rate-limit log.
//
// Each record is three parts: a header line "[<timestamp>] <LABEL>", the raw
// hook input (which may span several lines), and a "---" separator line.
package ratelog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
)

// Separator terminates every record.
const Separator = "---"

// Record is one logged detection.
type Record struct {
	Time   time.Time
	Family detect.Family
	Input  string
}

// Header returns the record's first line.
func (r Record) Header() string {
	return fmt.Sprintf("[%s] %s", r.Time.Format(time.RFC3339), r.Family.Label())
}

// Format renders the record exactly as it is written to the log.
func (r Record) Format() string {
	var b strings.Builder
	b.WriteString(r.Header())
	b.WriteByte('\n')
	b.WriteString(r.Input)
	b.WriteByte('\n')
	b.WriteString(Separator)
	b.WriteByte('\n')
	return b.String()
}

// NormalizeInput strips trailing newlines the same way shell command
// substitution does, so "$(cat)" and a Go reader log identical text.
func NormalizeInput(input string) string {
	return strings.TrimRight(input, "\r\n")
}

var headerRe = regexp.MustCompile(`^\[(.+)\] ([A-Z ]+)$`)

// headerTimeLayouts are tried in order. time.UnixDate matches the output of
// date(1), which older shell-based versions of the hook wrote.
var headerTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.UnixDate,
	"Mon Jan _2 15:04:05 MST 2006",
}

// parseHeader recognises a record header. Records with an unparsable
// timestamp are kept with a zero Time; unknown labels are rejected.
func parseHeader(line string) (Record, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	family, ok := detect.FamilyForLabel(m[2])
	if !ok {
		return Record{}, false
	}
	rec := Record{Family: family}
	for _, layout := range headerTimeLayouts {
		if t, err := time.Parse(layout, m[1]); err == nil {
			rec.Time = t
			break
		}
	}
	return rec, true
}
