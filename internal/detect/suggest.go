package detect

import "strings"

// familyNames are the accepted spellings, canonical name first per family.
var familyNames = []struct {
	name   string
	family Family
}{
	{"rate_limit", RateLimit},
	{"ratelimit", RateLimit},
	{"usage", Usage},
}

// Suggest returns the family name closest to a mistyped s, either as an
// abbreviation (every character of s appears in order) or within a small
// edit distance. ok is false when nothing is close enough.
func Suggest(s string) (name string, ok bool) {
	s = strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	if s == "" {
		return "", false
	}
	best, bestDist := "", -1
	for _, n := range familyNames {
		canonical := n.family.String()
		if isSubsequence(s, n.name) {
			return canonical, true
		}
		d := editDistance(s, n.name)
		if d <= typoThreshold(s, n.name) && (bestDist < 0 || d < bestDist) {
			best, bestDist = canonical, d
		}
	}
	return best, bestDist >= 0
}

// typoThreshold allows roughly one edit per three characters, between 1 and 3.
func typoThreshold(a, b string) int {
	n := max(len(a), len(b))
	return min(max((n+2)/3, 1), 3)
}

func isSubsequence(pattern, s string) bool {
	i := 0
	for j := 0; j < len(s) && i < len(pattern); j++ {
		if s[j] == pattern[i] {
			i++
		}
	}
	return i == len(pattern)
}

// editDistance is the optimal string alignment distance: insertions,
// deletions, substitutions and adjacent transpositions each cost one.
func editDistance(a, b string) int {
	d := make([][]int, len(a)+1)
	for i := range d {
		d[i] = make([]int, len(b)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				d[i][j] = min(d[i][j], d[i-2][j-2]+cost)
			}
		}
	}
	return d[len(a)][len(b)]
}
