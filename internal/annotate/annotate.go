// Package annotate is the hook itself: it inspects one payload, appends a
// record per matching family to the rate-limit log and warns on stderr.
//
// Nothing here ever reports failure to the caller. The hook runs inside
// the host's lifecycle and must not block or fail it.
package annotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/danielbrauer/claude-ratewatch/internal/config"
	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/hooks"
	"github.com/danielbrauer/claude-ratewatch/internal/logging"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

var (
	rateLimitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	usageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")).Bold(true)
)

// Options wires an Annotator.
type Options struct {
	Matcher *detect.Matcher
	Log     *ratelog.Appender
	Stderr  io.Writer
	Color   bool
	Filter  *config.ProjectFilter // optional
	Logger  *slog.Logger          // optional
}

// Result describes what one invocation did.
type Result struct {
	Families []detect.Family
	Logged   int
	Ignored  bool
}

// Annotator flags rate-limit and usage-limit payloads.
type Annotator struct {
	matcher *detect.Matcher
	log     *ratelog.Appender
	stderr  io.Writer
	color   bool
	filter  *config.ProjectFilter
	logger  *slog.Logger
}

// New creates an Annotator. A nil Matcher uses the built-in keywords and a
// nil Logger discards diagnostics.
func New(opts Options) *Annotator {
	a := &Annotator{
		matcher: opts.Matcher,
		log:     opts.Log,
		stderr:  opts.Stderr,
		color:   opts.Color,
		filter:  opts.Filter,
		logger:  opts.Logger,
	}
	if a.matcher == nil {
		a.matcher = detect.Default()
	}
	if a.stderr == nil {
		a.stderr = io.Discard
	}
	if a.logger == nil {
		a.logger = logging.New()
	}
	return a
}

// Annotate checks input against every family independently. For each match
// it appends one record and then prints one warning line. Append errors are
// only visible in the debug log.
func (a *Annotator) Annotate(ctx context.Context, input string) Result {
	var res Result

	if payload, ok := hooks.ParsePayload(input); ok {
		a.logger.Debug("hook payload",
			"event", payload.HookEventName,
			"session", payload.SessionID,
			"cwd", payload.Cwd)
		if a.filter.Ignored(payload.Cwd) {
			a.logger.Debug("project ignored", "cwd", payload.Cwd)
			res.Ignored = true
			return res
		}
	}

	res.Families = a.matcher.Match(input)
	for _, family := range res.Families {
		if ctx.Err() != nil {
			break
		}
		a.logger.Debug("matched", "family", family.String(), "keyword", a.matcher.Keyword(family, input))

		if a.log != nil {
			if _, err := a.log.Append(family, input); err != nil {
				a.logger.Debug("log append failed", "path", a.log.Path(), "error", err)
			} else {
				res.Logged++
			}
		}
		fmt.Fprintln(a.stderr, a.warning(family))
	}
	return res
}

// warning renders the single stderr line for a family.
func (a *Annotator) warning(family detect.Family) string {
	text := family.Marker()
	if a.log != nil {
		text += " - logged to " + a.log.Path()
	}
	if !a.color {
		return text
	}
	switch family {
	case detect.RateLimit:
		return rateLimitStyle.Render(text)
	default:
		return usageStyle.Render(text)
	}
}

// ReadInput reads the whole payload. An interactive terminal on stdin is
// treated as empty input so a stray manual run never hangs waiting for EOF.
// A read error keeps whatever arrived before it.
func ReadInput(r io.Reader) string {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ""
	}
	data, _ := io.ReadAll(r)
	return string(data)
}

// UseColor decides whether warnings written to w are styled.
func UseColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
