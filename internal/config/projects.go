package config

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ProjectFilter decides whether events from a working directory are ignored.
type ProjectFilter struct {
	patterns []string
}

// NewProjectFilter builds a filter from doublestar glob patterns. A leading
// "~" in a pattern is expanded against paths.Home.
func NewProjectFilter(paths Paths, patterns []string) *ProjectFilter {
	f := &ProjectFilter{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		f.patterns = append(f.patterns, filepath.ToSlash(paths.Expand(p)))
	}
	return f
}

// Ignored reports whether cwd matches any pattern. An empty cwd never does.
func (f *ProjectFilter) Ignored(cwd string) bool {
	if f == nil || cwd == "" {
		return false
	}
	value := filepath.ToSlash(filepath.Clean(cwd))
	for _, pattern := range f.patterns {
		if matchPattern(pattern, value) {
			return true
		}
	}
	return false
}

// matchPattern matches a path against a glob. A pattern also matches every
// directory below the one it names, so "~/scratch" covers "~/scratch/app".
func matchPattern(pattern, value string) bool {
	if matched, err := doublestar.Match(pattern, value); err == nil && matched {
		return true
	}
	matched, err := doublestar.Match(pattern+"/**", value)
	return err == nil && matched
}

// validPattern reports whether pattern is a well-formed doublestar glob.
func validPattern(pattern string) bool {
	return doublestar.ValidatePattern(filepath.ToSlash(pattern))
}
