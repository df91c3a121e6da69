package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// File names under the assistant's config directory.
const (
	LogFileName      = "rate-limit.log"
	ConfigFileName   = "ratewatch.yaml"
	SettingsFileName = "settings.json"
)

// Paths resolves every file location from a home directory, so tests can
// point the whole tool at a temporary home.
type Paths struct {
	Home string
}

// DefaultPaths uses the invoking user's home directory.
func DefaultPaths() Paths {
	return Paths{Home: xdg.Home}
}

// ClaudeDir is <home>/.claude.
func (p Paths) ClaudeDir() string {
	return filepath.Join(p.Home, ".claude")
}

// LogPath is the default rate-limit log, <home>/.claude/rate-limit.log.
func (p Paths) LogPath() string {
	return filepath.Join(p.ClaudeDir(), LogFileName)
}

// ConfigPath is the default ratewatch config file.
func (p Paths) ConfigPath() string {
	return filepath.Join(p.ClaudeDir(), ConfigFileName)
}

// UserSettingsPath is the host's user-level settings file.
func (p Paths) UserSettingsPath() string {
	return filepath.Join(p.ClaudeDir(), SettingsFileName)
}

// Expand replaces a leading "~" with the home directory.
func (p Paths) Expand(path string) string {
	if path == "~" {
		return p.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(p.Home, path[2:])
	}
	return path
}
