package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	m := Default()

	tests := []struct {
		name  string
		input string
		want  []Family
	}{
		{"empty", "", nil},
		{"no match", "Operation completed successfully", nil},
		{"429 too many requests", "Error: 429 Too Many Requests", []Family{RateLimit}},
		{"rate limit with space", "Rate Limit hit", []Family{RateLimit}},
		{"rate limit with dash", "rate-limit", []Family{RateLimit}},
		{"rate limit with underscore", "RATE_LIMIT_ERROR", []Family{RateLimit}},
		{"rate limit no separator", "ratelimit", nil},
		{"quota", "quota reached", []Family{RateLimit}},
		{"capacity", "The service is at Capacity", []Family{RateLimit}},
		{"throttled", "request was throttled", []Family{RateLimit}},
		{"throttling", "THROTTLING in effect", []Family{RateLimit}},
		{"overloaded", "overloaded_error", []Family{RateLimit}},
		{"try again", "Please try again later", []Family{RateLimit}},
		{"503", "HTTP 503", []Family{RateLimit}},
		{"usage cap", "Usage Cap reached", []Family{Usage}},
		{"usage limit", "usage limit", []Family{Usage}},
		{"plan limit", "plan limit hit", []Family{Usage}},
		{"maximum", "maximum", []Family{Usage}},
		{"exceeded", "budget exceeded", []Family{Usage}},
		{"usage keywords only", "Your plan's usage limit has been exceeded", []Family{Usage}},
		{"rate limit exceeded", "Rate Limit exceeded", []Family{RateLimit, Usage}},
		{"across lines", "status\n429\nmaximum tokens", []Family{RateLimit, Usage}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Match(tc.input))
		})
	}
}

func TestMatch_EachFamilyOnce(t *testing.T) {
	m := Default()
	got := m.Match("429 429 quota quota exceeded maximum")
	assert.Equal(t, []Family{RateLimit, Usage}, got)
}

func TestNewMatcher_ExtraKeywords(t *testing.T) {
	m, err := NewMatcher(map[Family][]string{
		RateLimit: {"slow down"},
		Usage:     {"out of credits", "  "},
	})
	require.NoError(t, err)

	assert.Equal(t, []Family{RateLimit}, m.Match("please SLOW DOWN"))
	assert.Equal(t, []Family{Usage}, m.Match("You are out of credits"))
	assert.Equal(t, []Family{RateLimit}, m.Match("429"), "defaults still apply")
}

func TestNewMatcher_InvalidKeyword(t *testing.T) {
	_, err := NewMatcher(map[Family][]string{Usage: {"("}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}

func TestKeyword(t *testing.T) {
	m := Default()
	assert.Equal(t, "Too Many Requests", m.Keyword(RateLimit, "got Too Many Requests"))
	assert.Equal(t, "", m.Keyword(Usage, "got Too Many Requests"))
}

func TestFamilyNames(t *testing.T) {
	assert.Equal(t, "RATE LIMIT WARNING", RateLimit.Label())
	assert.Equal(t, "USAGE WARNING", Usage.Label())

	for _, f := range Families {
		got, ok := FamilyForLabel(f.Label())
		require.True(t, ok)
		assert.Equal(t, f, got)

		parsed, err := ParseFamily(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, ok := FamilyForLabel("SOMETHING ELSE")
	assert.False(t, ok)

	f, err := ParseFamily("rate-limit")
	require.NoError(t, err)
	assert.Equal(t, RateLimit, f)

	_, err = ParseFamily("bogus")
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"usgae", "usage", true},
		{"rat_limit", "rate_limit", true},
		{"Rate-Limt", "rate_limit", true},
		{"useage", "usage", true},
		{"billing", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Suggest(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseFamily("usgae")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "usage"?`)
}
