// Package hooks describes the host runtime's lifecycle hooks from the
// receiving end: the events ratewatch is registered for, the payload the
// host pipes to a hook's stdin, and a runner that fires configured hook
// commands the same way the host does.
package hooks

import (
	"encoding/json"
	"strings"
)

// Event constants for hook lifecycle events.
const (
	EventPreToolUse        = "PreToolUse"
	EventPostToolUse       = "PostToolUse"
	EventUserPromptSubmit  = "UserPromptSubmit"
	EventSessionStart      = "SessionStart"
	EventPermissionRequest = "PermissionRequest"
	EventNotification      = "Notification"
	EventStop              = "Stop"
)

// MonitoredEvents are the events the rate-limit hook is installed on.
var MonitoredEvents = []string{EventNotification, EventStop}

// HookConfig holds hook definitions keyed by event type, as found under the
// "hooks" key of settings.json.
type HookConfig map[string][]HookDef

// HookDef defines a single hook action.
type HookDef struct {
	Type    string `json:"type"`              // "command", "prompt", "agent"
	Command string `json:"command,omitempty"` // shell command (type=command)
	Prompt  string `json:"prompt,omitempty"`  // prompt text (type=prompt)
}

// HookResult is the outcome of a hook execution.
type HookResult struct {
	Hook     HookDef
	Output   string // stdout from the hook command
	Stderr   string
	ExitCode int
	Error    error // non-nil if the hook failed to run or exited non-zero
}

// HasCommand reports whether event has a command hook whose command equals
// cmd after trimming.
func (c HookConfig) HasCommand(event, cmd string) bool {
	cmd = strings.TrimSpace(cmd)
	for _, h := range c[event] {
		if h.Type == "command" && strings.TrimSpace(h.Command) == cmd {
			return true
		}
	}
	return false
}

// Payload is the subset of the host's event JSON that ratewatch looks at.
// Every field is optional; hooks must work with plain-text input too.
type Payload struct {
	HookEventName  string `json:"hook_event_name,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Cwd            string `json:"cwd,omitempty"`
	Message        string `json:"message,omitempty"`
}

// ParsePayload decodes input as a JSON payload. Input that is not a JSON
// object yields the zero Payload and false.
func ParsePayload(input string) (Payload, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "{") {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return Payload{}, false
	}
	return p, true
}
