package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielbrauer/claude-ratewatch/internal/config"
	"github.com/danielbrauer/claude-ratewatch/internal/hooks"
	"github.com/danielbrauer/claude-ratewatch/internal/logging"
)

// doctorTimeout bounds each smoke-test run of the installed hook.
const doctorTimeout = 10 * time.Second

// defaultHookCommand is the absolute path of the running binary, so the
// host finds it regardless of its own PATH.
func defaultHookCommand() string {
	exe, err := os.Executable()
	if err != nil {
		return "ratewatch"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe
}

// hookFlags are shared by install, uninstall and doctor.
type hookFlags struct {
	command  string
	settings string
	events   []string
}

func (f *hookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.command, "command", "", "hook command (default: this binary)")
	cmd.Flags().StringVar(&f.settings, "settings", "", "settings.json to edit (default: ~/.claude/settings.json)")
	cmd.Flags().StringSliceVar(&f.events, "event", hooks.MonitoredEvents, "hook events to register on")
}

func (f *hookFlags) resolve(a *app) (command, settings string) {
	command = f.command
	if command == "" {
		command = defaultHookCommand()
	}
	settings = f.settings
	if settings == "" {
		settings = a.paths.UserSettingsPath()
	}
	return command, a.paths.Expand(settings)
}

func newInstallCmd(a *app) *cobra.Command {
	var flags hookFlags

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register ratewatch as a Notification and Stop hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, settings := flags.resolve(a)
			added, err := config.InstallHooks(settings, command, flags.events)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintf(out, "Already installed in %s\n", settings)
				return nil
			}
			fmt.Fprintf(out, "Added %q to %s in %s\n", command, strings.Join(added, ", "), settings)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newUninstallCmd(a *app) *cobra.Command {
	var flags hookFlags

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the ratewatch hook from settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, settings := flags.resolve(a)
			removed, err := config.UninstallHooks(settings, command, flags.events)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d hook(s) from %s\n", removed, settings)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newDoctorCmd(a *app) *cobra.Command {
	var flags hookFlags

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the config, the log location and the installed hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, _ := flags.resolve(a)
			d := &doctor{out: cmd.OutOrStdout()}
			d.run(cmd.Context(), a, command, flags.events)
			if d.problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", d.problems)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

type doctor struct {
	out      io.Writer
	problems int
}

func (d *doctor) ok(format string, args ...any) {
	fmt.Fprintf(d.out, "✓ "+format+"\n", args...)
}

func (d *doctor) fail(format string, args ...any) {
	d.problems++
	fmt.Fprintf(d.out, "✗ "+format+"\n", args...)
}

func (d *doctor) run(ctx context.Context, a *app, command string, events []string) {
	logPath := config.Default(a.paths).LogPath
	cfg, cfgPath, err := config.Resolve(a.paths, a.env)
	if err != nil {
		d.fail("config %s: %v", cfgPath, err)
	} else {
		d.ok("config %s", cfgPath)
		logPath = cfg.LogPath
		if _, err := cfg.Matcher(); err != nil {
			d.fail("keywords: %v", err)
		}
	}

	if err := checkWritableDir(filepath.Dir(logPath)); err != nil {
		d.fail("log directory: %v (the hook will warn but not log)", err)
	} else {
		d.ok("log file %s", logPath)
	}

	settings, _ := config.LoadSettings(a.paths.Home, a.cwd)
	installed := hooks.HookConfig{}
	for _, event := range events {
		if !settings.Hooks.HasCommand(event, command) {
			d.fail("%s hook: %q is not installed (run `ratewatch install`)", event, command)
			continue
		}
		installed[event] = []hooks.HookDef{{Type: "command", Command: command}}
	}
	if len(installed) == 0 {
		return
	}

	runner := hooks.NewRunner(installed).
		WithTimeout(doctorTimeout).
		WithEnv(logging.DebugEnv + "=0")
	for _, event := range events {
		if _, ok := installed[event]; !ok {
			continue
		}
		payload, _ := json.Marshal(hooks.Payload{
			HookEventName: event,
			Message:       "ratewatch doctor",
		})
		for _, res := range runner.Run(ctx, event, string(payload)) {
			switch {
			case res.Error != nil:
				d.fail("%s hook: %v", event, res.Error)
			case strings.TrimSpace(res.Stderr) != "":
				d.fail("%s hook: unexpected stderr %q", event, strings.TrimSpace(res.Stderr))
			default:
				d.ok("%s hook runs cleanly", event)
			}
		}
	}
}

// checkWritableDir confirms dir exists and a file can be created in it.
func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New(dir + " is not a directory")
	}
	f, err := os.CreateTemp(dir, ".ratewatch-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
