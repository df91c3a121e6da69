// Package detect classifies hook payloads into rate-limit and usage-limit
// families using case-insensitive keyword alternations.
package detect

import (
	"fmt"
	"regexp"
	"strings"
)

// Family is a class of limit condition the monitor flags.
type Family int

const (
	RateLimit Family = iota
	Usage
)

// Families lists every family in match order.
var Families = []Family{RateLimit, Usage}

// DefaultKeywords are the built-in alternations for each family. The dot in
// "rate.limit" and friends accepts any single separator character.
var DefaultKeywords = map[Family][]string{
	RateLimit: {
		`rate.limit`,
		`too many requests`,
		`quota`,
		`capacity`,
		`throttl`,
		`overloaded`,
		`try again`,
		`429`,
		`503`,
	},
	Usage: {
		`usage.limit`,
		`usage.cap`,
		`plan.limit`,
		`exceeded`,
		`maximum`,
	},
}

// Label is the fixed header text written to the log for this family.
func (f Family) Label() string {
	switch f {
	case RateLimit:
		return "RATE LIMIT WARNING"
	case Usage:
		return "USAGE WARNING"
	default:
		return "UNKNOWN"
	}
}

// Marker is the short warning shown on stderr when this family matches.
func (f Family) Marker() string {
	switch f {
	case RateLimit:
		return "⚠️  RATE LIMIT DETECTED"
	case Usage:
		return "⚠️  USAGE LIMIT WARNING"
	default:
		return "⚠️  LIMIT WARNING"
	}
}

// String returns the snake_case name used in config files and CLI flags.
func (f Family) String() string {
	switch f {
	case RateLimit:
		return "rate_limit"
	case Usage:
		return "usage"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ParseFamily accepts a family name ("rate_limit", "rate-limit", "usage").
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "rate_limit", "ratelimit", "rate":
		return RateLimit, nil
	case "usage":
		return Usage, nil
	}
	if name, ok := Suggest(s); ok {
		return 0, fmt.Errorf("unknown family %q, did you mean %q?", s, name)
	}
	return 0, fmt.Errorf("unknown family %q (want rate_limit or usage)", s)
}

// FamilyForLabel maps a log header label back to its family.
func FamilyForLabel(label string) (Family, bool) {
	for _, f := range Families {
		if f.Label() == label {
			return f, true
		}
	}
	return 0, false
}

type rule struct {
	family  Family
	pattern *regexp.Regexp
}

// Matcher tests input against every family independently.
type Matcher struct {
	rules []rule
}

// NewMatcher compiles the default keywords plus any extras. Extra keywords
// are regular expression fragments; an invalid one is reported with its
// family and text.
func NewMatcher(extra map[Family][]string) (*Matcher, error) {
	m := &Matcher{}
	for _, f := range Families {
		keywords := append([]string{}, DefaultKeywords[f]...)
		for _, kw := range extra[f] {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			if _, err := regexp.Compile(kw); err != nil {
				return nil, fmt.Errorf("invalid %s keyword %q: %w", f, kw, err)
			}
			keywords = append(keywords, kw)
		}
		re, err := regexp.Compile(`(?i)(?:` + strings.Join(keywords, "|") + `)`)
		if err != nil {
			return nil, fmt.Errorf("compiling %s keywords: %w", f, err)
		}
		m.rules = append(m.rules, rule{family: f, pattern: re})
	}
	return m, nil
}

// Default returns a Matcher with only the built-in keywords.
func Default() *Matcher {
	m, err := NewMatcher(nil)
	if err != nil {
		panic(err) // built-in keywords always compile
	}
	return m
}

// Match returns the families whose keywords appear in input, in Families
// order. Each family appears at most once.
func (m *Matcher) Match(input string) []Family {
	if input == "" {
		return nil
	}
	var hits []Family
	for _, r := range m.rules {
		if r.pattern.MatchString(input) {
			hits = append(hits, r.family)
		}
	}
	return hits
}

// Keyword returns the first substring of input that triggered family f, or
// "" if f does not match.
func (m *Matcher) Keyword(f Family, input string) string {
	for _, r := range m.rules {
		if r.family == f {
			return r.pattern.FindString(input)
		}
	}
	return ""
}
