package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/env"
)

// ConfigEnv overrides the location of the ratewatch config file.
const ConfigEnv = "RATEWATCH_CONFIG"

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is ratewatch's own configuration, loaded from ratewatch.yaml.
// Every field is optional; the zero file reproduces the built-in behaviour.
type Config struct {
	LogPath        string         `yaml:"log_path"`
	Color          string         `yaml:"color"`
	IgnoreProjects []string       `yaml:"ignore_projects"`
	Keywords       KeywordsConfig `yaml:"keywords"`
}

// KeywordsConfig adds keywords to the built-in families.
type KeywordsConfig struct {
	RateLimit []string `yaml:"rate_limit"`
	Usage     []string `yaml:"usage"`
}

// Default returns the configuration used when no file exists.
func Default(paths Paths) *Config {
	cfg := &Config{}
	cfg.applyDefaults(paths)
	return cfg
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string, paths Paths) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, paths)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte, paths Paths) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults(paths)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve finds and loads the active config file. The path comes from
// RATEWATCH_CONFIG or falls back to <home>/.claude/ratewatch.yaml. A missing
// default file yields Default; a missing explicit file is an error.
func Resolve(paths Paths, r env.Reader) (*Config, string, error) {
	path := r.Getenv(ConfigEnv)
	explicit := path != ""
	if !explicit {
		path = paths.ConfigPath()
	}
	path = paths.Expand(path)

	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) && !explicit {
		return Default(paths), path, nil
	}
	cfg, err := Load(path, paths)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// applyDefaults fills in default values and expands "~".
func (c *Config) applyDefaults(paths Paths) {
	if c.LogPath == "" {
		c.LogPath = paths.LogPath()
	}
	c.LogPath = paths.Expand(c.LogPath)
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// validate checks enum values, glob syntax and keyword regexps.
func (c *Config) validate() error {
	var errs []string
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Sprintf("color must be auto, always or never, got %q", c.Color))
	}
	for i, p := range c.IgnoreProjects {
		if !validPattern(p) {
			errs = append(errs, fmt.Sprintf("ignore_projects[%d] is not a valid glob: %q", i, p))
		}
	}
	if _, err := detect.NewMatcher(c.ExtraKeywords()); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ExtraKeywords returns the configured keywords keyed by family.
func (c *Config) ExtraKeywords() map[detect.Family][]string {
	return map[detect.Family][]string{
		detect.RateLimit: c.Keywords.RateLimit,
		detect.Usage:     c.Keywords.Usage,
	}
}

// Matcher compiles the built-in and configured keywords.
func (c *Config) Matcher() (*detect.Matcher, error) {
	return detect.NewMatcher(c.ExtraKeywords())
}

// ProjectFilter builds the ignore filter for this config.
func (c *Config) ProjectFilter(paths Paths) *ProjectFilter {
	return NewProjectFilter(paths, c.IgnoreProjects)
}
