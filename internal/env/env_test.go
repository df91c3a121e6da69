package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSReader(t *testing.T) {
	t.Setenv("RATEWATCH_TEST_VALUE", "hello")
	assert.Equal(t, "hello", OSReader{}.Getenv("RATEWATCH_TEST_VALUE"))
}

func TestBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"yes", false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			r := MapReader{"KEY": tc.value}
			assert.Equal(t, tc.want, Bool(r, "KEY"))
		})
	}
}
