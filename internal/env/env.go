// Package env abstracts environment variable access so that callers can be
// tested without touching the process environment.
package env

import (
	"os"
	"strconv"
)

// Reader defines an interface for environment variable access.
type Reader interface {
	Getenv(key string) string
}

// OSReader implements Reader using the standard os package.
type OSReader struct{}

// Getenv returns the value of the environment variable named by the key.
func (OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// MapReader is a Reader backed by a fixed map.
type MapReader map[string]string

// Getenv returns the mapped value, or "" when the key is absent.
func (m MapReader) Getenv(key string) string {
	return m[key]
}

// Bool reports whether key is set to a value strconv.ParseBool accepts as true.
// Unset or unparsable values are false.
func Bool(r Reader, key string) bool {
	v, err := strconv.ParseBool(r.Getenv(key))
	return err == nil && v
}
