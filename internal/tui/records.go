package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

// RecordOptions controls how a record is printed.
type RecordOptions struct {
	Color    bool
	MaxInput int // truncate the input to this many runes; 0 = no limit
	OneLine  bool
}

func labelStyle(f detect.Family) lipgloss.Style {
	if f == detect.RateLimit {
		return rateLimitLabelStyle
	}
	return usageLabelStyle
}

// FormatRecord renders a record for the terminal:
//
//	2026-10-19 09:30:00  RATE LIMIT WARNING
//	  Error: 429 Too Many Requests
func FormatRecord(r ratelog.Record, opts RecordOptions) string {
	ts := "unknown time"
	if !r.Time.IsZero() {
		ts = r.Time.Local().Format(time.DateTime)
	}
	label := r.Family.Label()

	input := r.Input
	if opts.OneLine {
		input = strings.Join(strings.Fields(input), " ")
	}
	input = truncate(input, opts.MaxInput)

	if opts.Color {
		ts = timeStyle.Render(ts)
		label = labelStyle(r.Family).Render(label)
	}

	var b strings.Builder
	b.WriteString(ts)
	b.WriteString("  ")
	b.WriteString(label)
	for _, line := range strings.Split(input, "\n") {
		b.WriteString("\n  ")
		if opts.Color {
			line = inputStyle.Render(line)
		}
		b.WriteString(line)
	}
	return b.String()
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
