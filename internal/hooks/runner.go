package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single hook command.
const DefaultTimeout = 30 * time.Second

// Runner executes hooks from a HookConfig.
type Runner struct {
	config  HookConfig
	timeout time.Duration
	env     []string
}

// NewRunner creates a new hook runner from the given config.
func NewRunner(config HookConfig) *Runner {
	return &Runner{config: config, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-hook timeout.
func (r *Runner) WithTimeout(d time.Duration) *Runner {
	r.timeout = d
	return r
}

// WithEnv adds environment entries ("KEY=value") to every hook command.
func (r *Runner) WithEnv(env ...string) *Runner {
	r.env = append(r.env, env...)
	return r
}

// Run fires every hook registered for event, piping payload to each
// command's stdin. All hooks run even if an earlier one fails.
func (r *Runner) Run(ctx context.Context, event, payload string) []HookResult {
	defs := r.config[event]
	if len(defs) == 0 {
		return nil
	}

	env := append([]string{"HOOK_EVENT=" + event}, r.env...)

	results := make([]HookResult, 0, len(defs))
	for _, hook := range defs {
		result := r.executeHook(ctx, hook, payload, env)
		result.Hook = hook
		results = append(results, result)
	}
	return results
}

// executeHook runs a single hook definition and returns the result.
func (r *Runner) executeHook(ctx context.Context, hook HookDef, payload string, extraEnv []string) HookResult {
	switch hook.Type {
	case "command", "agent":
		return r.runCommand(ctx, hook.Command, payload, extraEnv)
	case "prompt":
		// Prompt hooks only inject text into the host conversation.
		return HookResult{Output: hook.Prompt}
	default:
		return HookResult{Error: fmt.Errorf("unknown hook type: %s", hook.Type)}
	}
}

// runCommand executes a shell command with payload on stdin.
func (r *Runner) runCommand(ctx context.Context, command, payload string, extraEnv []string) HookResult {
	if command == "" {
		return HookResult{}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdin = strings.NewReader(payload)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := HookResult{Output: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		result.Error = fmt.Errorf("%s", errMsg)
	}
	return result
}
