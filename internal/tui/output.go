package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders markdown text to styled ANSI output.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// newMarkdownRenderer creates a renderer with the given terminal width.
func newMarkdownRenderer(width int) *markdownRenderer {
	if width < 40 {
		width = 80
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4), // small margin for safety
	)
	return &markdownRenderer{renderer: r, width: width}
}

// render converts markdown text to styled ANSI output.
func (r *markdownRenderer) render(md string) string {
	if r.renderer == nil {
		return md
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	// glamour often adds trailing newlines; trim for tighter display.
	return strings.TrimRight(out, "\n")
}

// RenderMarkdown styles md for a terminal of the given width. With color
// off the markdown source is returned unchanged, which reads fine in a pipe.
func RenderMarkdown(md string, width int, color bool) string {
	if !color {
		return strings.TrimRight(md, "\n")
	}
	return newMarkdownRenderer(width).render(md)
}
