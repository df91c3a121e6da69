// Package report summarises the rate-limit log.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

// FamilyStats aggregates the records of one family.
type FamilyStats struct {
	Family detect.Family
	Count  int
	First  time.Time
	Last   time.Time
}

// DayCount is the number of records per family on one calendar day.
type DayCount struct {
	Day    string // YYYY-MM-DD in the records' own zone
	Counts map[detect.Family]int
}

// Summary is the aggregate view printed by `ratewatch stats`.
type Summary struct {
	Total    int
	Families []FamilyStats
	Days     []DayCount // newest first
	Undated  int
}

// Summarize aggregates records. Records with a zero timestamp count toward
// totals but not toward days or first/last.
func Summarize(records []ratelog.Record) Summary {
	s := Summary{Total: len(records)}

	byFamily := make(map[detect.Family]*FamilyStats)
	for _, f := range detect.Families {
		byFamily[f] = &FamilyStats{Family: f}
	}
	byDay := make(map[string]map[detect.Family]int)

	for _, r := range records {
		fs, ok := byFamily[r.Family]
		if !ok {
			continue
		}
		fs.Count++
		if r.Time.IsZero() {
			s.Undated++
			continue
		}
		if fs.First.IsZero() || r.Time.Before(fs.First) {
			fs.First = r.Time
		}
		if r.Time.After(fs.Last) {
			fs.Last = r.Time
		}
		day := r.Time.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = make(map[detect.Family]int)
		}
		byDay[day][r.Family]++
	}

	for _, f := range detect.Families {
		s.Families = append(s.Families, *byFamily[f])
	}
	for day, counts := range byDay {
		s.Days = append(s.Days, DayCount{Day: day, Counts: counts})
	}
	sort.Slice(s.Days, func(i, j int) bool { return s.Days[i].Day > s.Days[j].Day })
	return s
}

// LimitDays keeps the newest n days. n <= 0 keeps all.
func (s Summary) LimitDays(n int) Summary {
	if n > 0 && len(s.Days) > n {
		s.Days = s.Days[:n]
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// Markdown renders the summary as a markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Rate limit log\n\n")
	if s.Total == 0 {
		b.WriteString("No rate-limit or usage warnings recorded.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "**%d** warnings recorded", s.Total)
	if s.Undated > 0 {
		fmt.Fprintf(&b, " (%d without a readable timestamp)", s.Undated)
	}
	b.WriteString(".\n\n")

	b.WriteString("| Kind | Count | First seen | Last seen |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, fs := range s.Families {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
			fs.Family.Label(), fs.Count, formatTime(fs.First), formatTime(fs.Last))
	}

	if len(s.Days) > 0 {
		b.WriteString("\n## By day\n\n")
		b.WriteString("| Day | Rate limit | Usage |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, d := range s.Days {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", d.Day, d.Counts[detect.RateLimit], d.Counts[detect.Usage])
		}
	}
	return b.String()
}
