// Package tui renders the rate-limit log in a terminal: styled records for
// `show`, glamour-rendered summaries for `stats`, and the live `watch` view.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

// WatchConfig bundles everything the watch view needs.
type WatchConfig struct {
	LogPath string
	History int // records from the existing log to show on start
	Logger  *slog.Logger
}

// TerminalWidth reports the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// RunWatch starts the live view and blocks until the user quits or ctx is
// cancelled.
func RunWatch(ctx context.Context, cfg WatchConfig) error {
	history, err := ratelog.Load(cfg.LogPath)
	if err != nil {
		return err
	}
	history = ratelog.Tail(history, cfg.History)
	if cfg.History <= 0 {
		history = nil
	}

	followCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	source, err := ratelog.Follow(followCtx, cfg.LogPath, false, cfg.Logger)
	if err != nil {
		return err
	}

	m := newModel(cfg.LogPath, history, source, TerminalWidth())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
