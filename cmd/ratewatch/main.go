// Command ratewatch is an assistant lifecycle hook that flags rate-limit and
// usage-limit events, plus a handful of commands to install the hook and
// inspect what it has logged.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielbrauer/claude-ratewatch/internal/annotate"
	"github.com/danielbrauer/claude-ratewatch/internal/config"
	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/env"
	"github.com/danielbrauer/claude-ratewatch/internal/logging"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// app carries the process-level inputs every command resolves paths from.
type app struct {
	paths config.Paths
	env   env.Reader
	cwd   string
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratewatch",
		Short: "Flag rate-limit and usage-limit events from assistant hooks",
		Long: "Run without a subcommand, ratewatch reads a hook payload from stdin, " +
			"appends a record to ~/.claude/rate-limit.log for every rate-limit or usage " +
			"keyword family it finds, and prints a one-line warning to stderr. " +
			"It always exits 0 so the host is never blocked.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			a.runHook(cmd)
		},
	}
	// The host may add flags we do not know; the hook must still succeed.
	cmd.FParseErrWhitelist.UnknownFlags = true

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newInstallCmd(a))
	cmd.AddCommand(newUninstallCmd(a))
	cmd.AddCommand(newDoctorCmd(a))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ratewatch %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

// runHook is the hook entry point. It never returns an error: a broken
// config falls back to defaults and a panic is swallowed.
func (a *app) runHook(cmd *cobra.Command) {
	stderr := cmd.ErrOrStderr()
	logger := logging.FromEnv(a.env, stderr)
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("hook panicked", "panic", r)
		}
	}()

	cfg, path, err := config.Resolve(a.paths, a.env)
	if err != nil {
		logger.Debug("config unusable, using defaults", "path", path, "error", err)
		cfg = config.Default(a.paths)
	}
	matcher, err := cfg.Matcher()
	if err != nil {
		matcher = detect.Default()
	}

	ann := annotate.New(annotate.Options{
		Matcher: matcher,
		Log:     ratelog.NewAppender(cfg.LogPath),
		Stderr:  stderr,
		Color:   annotate.UseColor(cfg.Color, stderr),
		Filter:  cfg.ProjectFilter(a.paths),
		Logger:  logger,
	})
	res := ann.Annotate(cmd.Context(), annotate.ReadInput(cmd.InOrStdin()))
	logger.Debug("hook finished", "matched", len(res.Families), "logged", res.Logged, "ignored", res.Ignored)
}

// loadConfig is the strict config lookup used by subcommands.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, _, err := config.Resolve(a.paths, a.env)
	return cfg, err
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	cwd, _ := os.Getwd()
	a := &app{
		paths: config.DefaultPaths(),
		env:   env.OSReader{},
		cwd:   cwd,
	}
	os.Exit(execute(newRootCmd(a)))
}
