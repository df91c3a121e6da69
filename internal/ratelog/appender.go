package ratelog

import (
	"fmt"
	"os"
	"time"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
)

// Appender writes records to the end of a log file. It never creates the
// parent directory and takes no lock; each record goes out in one write on
// an O_APPEND handle, which is the only ordering guarantee across processes.
type Appender struct {
	path string
	now  func() time.Time
}

// NewAppender returns an Appender for the log at path.
func NewAppender(path string) *Appender {
	return &Appender{path: path, now: time.Now}
}

// NewAppenderWithClock is NewAppender with an injectable clock (for testing).
func NewAppenderWithClock(path string, now func() time.Time) *Appender {
	return &Appender{path: path, now: now}
}

// Path returns the log file path.
func (a *Appender) Path() string {
	return a.path
}

// Append writes one record for family with the given raw input.
func (a *Appender) Append(family detect.Family, input string) (Record, error) {
	rec := Record{
		Time:   a.now(),
		Family: family,
		Input:  NormalizeInput(input),
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return rec, fmt.Errorf("opening log: %w", err)
	}
	if _, err := f.WriteString(rec.Format()); err != nil {
		f.Close()
		return rec, fmt.Errorf("writing log record: %w", err)
	}
	if err := f.Close(); err != nil {
		return rec, fmt.Errorf("closing log: %w", err)
	}
	return rec, nil
}
