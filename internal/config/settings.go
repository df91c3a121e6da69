// Package config handles the host's settings.json files and ratewatch's own
// YAML configuration.
//
// Host settings are read from four levels (highest priority first):
//  1. Managed: /etc/claude/settings.json
//  2. Local: .claude/settings.local.json (gitignored, per-project)
//  3. Project: .claude/settings.json (committed, per-project)
//  4. User: ~/.claude/settings.json (global)
//
// ratewatch only ever writes the user level.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielbrauer/claude-ratewatch/internal/hooks"
)

// Settings holds the parts of the merged host settings ratewatch cares about.
type Settings struct {
	Hooks hooks.HookConfig
	// Sources lists the settings files that were read, lowest priority first.
	Sources []string
}

// rawSettings is used for initial JSON deserialization.
type rawSettings struct {
	Hooks map[string][]json.RawMessage `json:"hooks,omitempty"`
}

// hookGroup is the matcher-grouped form some hosts write:
//
//	{"matcher": "", "hooks": [{"type": "command", "command": "..."}]}
type hookGroup struct {
	Matcher string          `json:"matcher,omitempty"`
	Hooks   []hooks.HookDef `json:"hooks"`
}

// LoadSettings loads and merges hook settings from all levels. Hook lists
// are concatenated per event with higher-priority levels first. Missing or
// invalid files are skipped.
func LoadSettings(home, cwd string) (*Settings, error) {
	merged := &Settings{Hooks: hooks.HookConfig{}}
	for _, path := range settingsPaths(home, cwd) {
		layer, err := loadSettingsFile(path)
		if err != nil {
			continue // missing or invalid
		}
		merged = mergeSettings(merged, layer)
		merged.Sources = append(merged.Sources, path)
	}
	return merged, nil
}

// settingsPaths returns settings file paths from lowest to highest priority.
func settingsPaths(home, cwd string) []string {
	paths := []string{
		filepath.Join(home, ".claude", SettingsFileName),
	}
	if cwd != "" {
		paths = append(paths,
			filepath.Join(cwd, ".claude", SettingsFileName),
			filepath.Join(cwd, ".claude", "settings.local.json"),
		)
	}
	return append(paths, "/etc/claude/settings.json")
}

// loadSettingsFile reads and parses a single settings JSON file.
func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw rawSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	s := &Settings{Hooks: hooks.HookConfig{}}
	for event, entries := range raw.Hooks {
		s.Hooks[event] = parseHookEntries(entries)
	}
	return s, nil
}

// parseHookEntries accepts both the flat form ({type, command}) and the
// matcher-grouped form, flattening groups into their hook definitions.
func parseHookEntries(entries []json.RawMessage) []hooks.HookDef {
	var defs []hooks.HookDef
	for _, entry := range entries {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(entry, &probe); err != nil {
			continue
		}
		if _, grouped := probe["hooks"]; grouped {
			var g hookGroup
			if err := json.Unmarshal(entry, &g); err == nil {
				defs = append(defs, g.Hooks...)
			}
			continue
		}
		var def hooks.HookDef
		if err := json.Unmarshal(entry, &def); err == nil {
			defs = append(defs, def)
		}
	}
	return defs
}

// mergeSettings merges overlay on top of base. Hook lists are concatenated
// per event with overlay hooks first (higher priority).
func mergeSettings(base, overlay *Settings) *Settings {
	result := &Settings{
		Hooks:   hooks.HookConfig{},
		Sources: base.Sources,
	}
	for event, defs := range overlay.Hooks {
		result.Hooks[event] = append(result.Hooks[event], defs...)
	}
	for event, defs := range base.Hooks {
		result.Hooks[event] = append(result.Hooks[event], defs...)
	}
	return result
}

// InstallHooks registers command as a command hook for each event in the
// settings file at path, creating the file if needed. Events that already
// run command are left alone. It returns the events that were added.
func InstallHooks(path, command string, events []string) ([]string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, fmt.Errorf("hook command is empty")
	}

	settings, err := readSettingsMap(path)
	if err != nil {
		return nil, err
	}
	hookMap := hooksMap(settings)

	var added []string
	for _, event := range events {
		list, _ := hookMap[event].([]interface{})
		if containsCommand(list, command) {
			continue
		}
		hookMap[event] = append(list, map[string]interface{}{
			"type":    "command",
			"command": command,
		})
		added = append(added, event)
	}
	if len(added) == 0 {
		return nil, nil
	}
	settings["hooks"] = hookMap
	return added, writeSettingsMap(path, settings)
}

// UninstallHooks removes every command hook running command from the given
// events. Empty event lists, and an empty hooks object, are removed too. It
// returns the number of hook definitions removed.
func UninstallHooks(path, command string, events []string) (int, error) {
	command = strings.TrimSpace(command)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading settings: %w", err)
	}
	var settings map[string]interface{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return 0, fmt.Errorf("parsing settings: %w", err)
	}
	hookMap := hooksMap(settings)

	removed := 0
	for _, event := range events {
		list, ok := hookMap[event].([]interface{})
		if !ok {
			continue
		}
		kept, n := removeCommand(list, command)
		removed += n
		if len(kept) == 0 {
			delete(hookMap, event)
		} else {
			hookMap[event] = kept
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if len(hookMap) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hookMap
	}
	return removed, writeSettingsMap(path, settings)
}

func hooksMap(settings map[string]interface{}) map[string]interface{} {
	if m, ok := settings["hooks"].(map[string]interface{}); ok {
		return m
	}
	return make(map[string]interface{})
}

func isCommandHook(v interface{}, command string) bool {
	m, ok := v.(map[string]interface{})
	if !ok {
		return false
	}
	t, _ := m["type"].(string)
	c, _ := m["command"].(string)
	return t == "command" && strings.TrimSpace(c) == command
}

func containsCommand(list []interface{}, command string) bool {
	for _, entry := range list {
		if isCommandHook(entry, command) {
			return true
		}
		if group, ok := entry.(map[string]interface{}); ok {
			inner, _ := group["hooks"].([]interface{})
			if containsCommand(inner, command) {
				return true
			}
		}
	}
	return false
}

func removeCommand(list []interface{}, command string) ([]interface{}, int) {
	kept := make([]interface{}, 0, len(list))
	removed := 0
	for _, entry := range list {
		if isCommandHook(entry, command) {
			removed++
			continue
		}
		if group, ok := entry.(map[string]interface{}); ok {
			if inner, ok := group["hooks"].([]interface{}); ok {
				innerKept, n := removeCommand(inner, command)
				removed += n
				if len(innerKept) == 0 {
					continue
				}
				group["hooks"] = innerKept
			}
		}
		kept = append(kept, entry)
	}
	return kept, removed
}

// readSettingsMap reads a settings file as a raw map so that keys ratewatch
// does not know about survive a rewrite.
func readSettingsMap(path string) (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
				return nil, fmt.Errorf("creating settings directory: %w", mkErr)
			}
			return settings, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		// Refuse to clobber a file we cannot parse.
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if settings == nil {
		settings = make(map[string]interface{})
	}
	return settings, nil
}

func writeSettingsMap(path string, settings map[string]interface{}) error {
	output, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	output = append(output, '\n')
	if err := os.WriteFile(path, output, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
