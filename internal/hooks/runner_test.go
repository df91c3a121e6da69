package hooks

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRun_NoHooks(t *testing.T) {
	r := NewRunner(HookConfig{})
	if results := r.Run(context.Background(), EventStop, "x"); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRun_SuccessfulCommand(t *testing.T) {
	r := NewRunner(HookConfig{
		EventNotification: {{Type: "command", Command: "true"}},
	})
	results := r.Run(context.Background(), EventNotification, "")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Fatalf("expected nil error, got %v", results[0].Error)
	}
	if results[0].Hook.Command != "true" {
		t.Errorf("result should carry its hook, got %+v", results[0].Hook)
	}
}

func TestRun_FailingCommand(t *testing.T) {
	r := NewRunner(HookConfig{
		EventStop: {{Type: "command", Command: "echo boom >&2; exit 3"}},
	})
	results := r.Run(context.Background(), EventStop, "")
	if results[0].Error == nil {
		t.Fatal("expected error, got nil")
	}
	if results[0].ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", results[0].ExitCode)
	}
	if results[0].Error.Error() != "boom" {
		t.Errorf("error = %q, want stderr text", results[0].Error)
	}
}

func TestRun_PayloadOnStdin(t *testing.T) {
	r := NewRunner(HookConfig{
		EventNotification: {{Type: "command", Command: "cat"}},
	})
	results := r.Run(context.Background(), EventNotification, "Error: 429 Too Many Requests")
	if got := results[0].Output; got != "Error: 429 Too Many Requests" {
		t.Errorf("Output = %q, want payload echoed", got)
	}
}

func TestRun_EnvironmentVariablesPassed(t *testing.T) {
	r := NewRunner(HookConfig{
		EventStop: {{Type: "command", Command: `test "$HOOK_EVENT" = "Stop" && test "$EXTRA" = "1"`}},
	}).WithEnv("EXTRA=1")
	results := r.Run(context.Background(), EventStop, "")
	if results[0].Error != nil {
		t.Fatalf("environment variables not set correctly: %v", results[0].Error)
	}
}

func TestRun_AllHooksRunAfterFailure(t *testing.T) {
	r := NewRunner(HookConfig{
		EventStop: {
			{Type: "command", Command: "false"},
			{Type: "command", Command: "echo second"},
		},
	})
	results := r.Run(context.Background(), EventStop, "")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected first hook to fail")
	}
	if strings.TrimSpace(results[1].Output) != "second" {
		t.Errorf("second hook output = %q", results[1].Output)
	}
}

func TestRun_Timeout(t *testing.T) {
	r := NewRunner(HookConfig{
		EventStop: {{Type: "command", Command: "sleep 5"}},
	}).WithTimeout(50 * time.Millisecond)
	results := r.Run(context.Background(), EventStop, "")
	if results[0].Error == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestPromptHook(t *testing.T) {
	r := NewRunner(HookConfig{
		EventStop: {{Type: "prompt", Prompt: "Check for sensitive data"}},
	})
	results := r.Run(context.Background(), EventStop, "")
	if results[0].Error != nil || results[0].Output != "Check for sensitive data" {
		t.Fatalf("unexpected prompt result: %+v", results[0])
	}
}

func TestUnknownHookType(t *testing.T) {
	r := NewRunner(HookConfig{
		EventStop: {{Type: "unknown"}},
	})
	results := r.Run(context.Background(), EventStop, "")
	if results[0].Error == nil {
		t.Fatal("expected error for unknown hook type, got nil")
	}
}

func TestHasCommand(t *testing.T) {
	c := HookConfig{
		EventStop: {{Type: "command", Command: " ratewatch "}, {Type: "prompt", Prompt: "ratewatch"}},
	}
	if !c.HasCommand(EventStop, "ratewatch") {
		t.Error("expected command to be found")
	}
	if c.HasCommand(EventNotification, "ratewatch") {
		t.Error("unexpected match on another event")
	}
}

func TestParsePayload(t *testing.T) {
	p, ok := ParsePayload(`{"hook_event_name":"Notification","session_id":"abc","cwd":"/work/app","message":"Claude is rate limited"}`)
	if !ok {
		t.Fatal("expected JSON payload to parse")
	}
	if p.HookEventName != EventNotification || p.Cwd != "/work/app" || p.SessionID != "abc" {
		t.Errorf("unexpected payload: %+v", p)
	}

	if _, ok := ParsePayload("Error: 429 Too Many Requests"); ok {
		t.Error("plain text should not parse as payload")
	}
	if _, ok := ParsePayload("{not json"); ok {
		t.Error("broken JSON should not parse as payload")
	}
}
