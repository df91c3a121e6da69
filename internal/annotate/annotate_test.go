package annotate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielbrauer/claude-ratewatch/internal/config"
	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

func newTestAnnotator(t *testing.T, logPath string) (*Annotator, *bytes.Buffer) {
	t.Helper()
	var stderr bytes.Buffer
	clock := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	a := New(Options{
		Log:    ratelog.NewAppenderWithClock(logPath, clock),
		Stderr: &stderr,
	})
	return a, &stderr
}

func stderrLines(buf *bytes.Buffer) []string {
	s := strings.TrimRight(buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestAnnotate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		families []detect.Family
	}{
		{"429 too many requests", "Error: 429 Too Many Requests", []detect.Family{detect.RateLimit}},
		{"usage limit exceeded", "Your plan's usage limit has been exceeded", []detect.Family{detect.Usage}},
		{"rate limit exceeded", "Rate Limit exceeded", []detect.Family{detect.RateLimit, detect.Usage}},
		{"usage cap", "Usage Cap reached", []detect.Family{detect.Usage}},
		{"no match", "Operation completed successfully", nil},
		{"empty", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "rate-limit.log")
			a, stderr := newTestAnnotator(t, logPath)

			res := a.Annotate(context.Background(), tc.input)
			assert.Equal(t, tc.families, res.Families)
			assert.Equal(t, len(tc.families), res.Logged)

			records, err := ratelog.Load(logPath)
			require.NoError(t, err)
			require.Len(t, records, len(tc.families))
			for i, f := range tc.families {
				assert.Equal(t, f, records[i].Family)
				assert.Equal(t, tc.input, records[i].Input)
			}

			lines := stderrLines(stderr)
			require.Len(t, lines, len(tc.families))
			for i, f := range tc.families {
				assert.Contains(t, lines[i], f.Marker())
			}

			if len(tc.families) == 0 {
				_, err := os.Stat(logPath)
				assert.True(t, errors.Is(err, os.ErrNotExist), "no match must not touch the log")
			}
		})
	}
}

func TestAnnotate_MissingLogDirectoryStillWarns(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "no", "such", "dir", "rate-limit.log")
	a, stderr := newTestAnnotator(t, logPath)

	res := a.Annotate(context.Background(), "HTTP 503 overloaded")
	assert.Equal(t, []detect.Family{detect.RateLimit}, res.Families)
	assert.Equal(t, 0, res.Logged)

	lines := stderrLines(stderr)
	require.Len(t, lines, 1, "only the warning, never the write error")
	assert.Contains(t, lines[0], detect.RateLimit.Marker())
}

func TestAnnotate_IgnoredProject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rate-limit.log")
	var stderr bytes.Buffer
	a := New(Options{
		Log:    ratelog.NewAppender(logPath),
		Stderr: &stderr,
		Filter: config.NewProjectFilter(config.Paths{Home: "/home/dev"}, []string{"~/scratch/**"}),
	})

	res := a.Annotate(context.Background(), `{"hook_event_name":"Stop","cwd":"/home/dev/scratch/x","message":"429"}`)
	assert.True(t, res.Ignored)
	assert.Empty(t, stderr.String())

	res = a.Annotate(context.Background(), `{"hook_event_name":"Stop","cwd":"/home/dev/work","message":"429"}`)
	assert.False(t, res.Ignored)
	assert.Equal(t, 1, res.Logged)
}

func TestAnnotate_WarningMentionsLogPath(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rate-limit.log")
	a, stderr := newTestAnnotator(t, logPath)

	a.Annotate(context.Background(), "quota")
	assert.Contains(t, stderr.String(), logPath)
	assert.NotContains(t, stderr.String(), "\x1b[", "plain output when color is off")
}

func TestAnnotate_CancelledContext(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rate-limit.log")
	a, stderr := newTestAnnotator(t, logPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := a.Annotate(ctx, "429")
	assert.Equal(t, 0, res.Logged)
	assert.Empty(t, stderr.String())
}

func TestReadInput(t *testing.T) {
	assert.Equal(t, "payload\n", ReadInput(strings.NewReader("payload\n")))
	assert.Equal(t, "", ReadInput(strings.NewReader("")))
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, UseColor(config.ColorAlways, &buf))
	assert.False(t, UseColor(config.ColorNever, &buf))
	assert.False(t, UseColor(config.ColorAuto, &buf), "a buffer is not a terminal")
}
