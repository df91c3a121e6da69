package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielbrauer/claude-ratewatch/internal/annotate"
	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/logging"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
	"github.com/danielbrauer/claude-ratewatch/internal/report"
	"github.com/danielbrauer/claude-ratewatch/internal/tui"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [text...]",
		Short: "Show which families a payload would trigger, without logging",
		Long: "Reads the payload from the arguments, or from stdin when none are given, " +
			"and prints the keyword that triggered each family. Nothing is written to the log.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			matcher, err := cfg.Matcher()
			if err != nil {
				return err
			}

			input := strings.Join(args, " ")
			if len(args) == 0 {
				input = annotate.ReadInput(cmd.InOrStdin())
			}

			out := cmd.OutOrStdout()
			matched := matcher.Match(input)
			if len(matched) == 0 {
				fmt.Fprintln(out, "no match")
				return nil
			}
			for _, f := range matched {
				fmt.Fprintf(out, "%-10s  %q\n", f, matcher.Keyword(f, input))
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var (
		limit   int
		family  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the most recent log records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			var only *detect.Family
			if family != "" {
				f, err := detect.ParseFamily(family)
				if err != nil {
					return err
				}
				only = &f
			}

			records, err := ratelog.Load(cfg.LogPath)
			if err != nil {
				return err
			}
			records = ratelog.Tail(ratelog.Filter(records, only), limit)

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No records in %s\n", cfg.LogPath)
				return nil
			}
			opts := tui.RecordOptions{
				Color:   annotate.UseColor(cfg.Color, out),
				OneLine: compact,
			}
			if compact {
				opts.MaxInput = tui.TerminalWidth() - 40
			}
			for i, r := range records {
				if i > 0 && !compact {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, tui.FormatRecord(r, opts))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "lines", "n", 20, "number of records to show (0 = all)")
	cmd.Flags().StringVar(&family, "family", "", "only show one family (rate_limit or usage)")
	cmd.Flags().BoolVar(&compact, "compact", false, "collapse each payload to one truncated line")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		days     int
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the log per family and per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			records, err := ratelog.Load(cfg.LogPath)
			if err != nil {
				return err
			}

			md := report.Summarize(records).LimitDays(days).Markdown()
			out := cmd.OutOrStdout()
			color := !markdown && annotate.UseColor(cfg.Color, out)
			fmt.Fprintln(out, tui.RenderMarkdown(md, tui.TerminalWidth(), color))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 14, "number of days in the daily table (0 = all)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print raw markdown")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the log and show new records as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tui.RunWatch(ctx, tui.WatchConfig{
				LogPath: cfg.LogPath,
				History: history,
				Logger:  logging.FromEnv(a.env, cmd.ErrOrStderr()),
			})
		},
	}

	cmd.Flags().IntVar(&history, "history", 10, "existing records to show on start")
	return cmd
}
