package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielbrauer/claude-ratewatch/internal/detect"
	"github.com/danielbrauer/claude-ratewatch/internal/ratelog"
)

// maxKept bounds the records held by the watch view.
const maxKept = 200

// recordMsg carries one record read from the follower.
type recordMsg ratelog.Record

// followClosedMsg signals that the follower channel was closed.
type followClosedMsg struct{}

// waitForRecord blocks on the follower channel and turns the next record
// into a message.
func waitForRecord(ch <-chan ratelog.Record) tea.Cmd {
	return func() tea.Msg {
		rec, ok := <-ch
		if !ok {
			return followClosedMsg{}
		}
		return recordMsg(rec)
	}
}

// model is the Bubble Tea model for `ratewatch watch`.
type model struct {
	path    string
	source  <-chan ratelog.Record
	kept    []ratelog.Record
	counts  map[detect.Family]int
	spinner spinner.Model
	width   int
	height  int
	closed  bool
}

func newModel(path string, history []ratelog.Record, source <-chan ratelog.Record, width int) model {
	m := model{
		path:    path,
		source:  source,
		counts:  make(map[detect.Family]int),
		spinner: newSpinner(),
		width:   width,
		height:  24,
	}
	for _, r := range history {
		m.add(r)
	}
	return m
}

func (m *model) add(r ratelog.Record) {
	m.kept = append(m.kept, r)
	if len(m.kept) > maxKept {
		m.kept = m.kept[len(m.kept)-maxKept:]
	}
	m.counts[r.Family]++
}

// Init starts the spinner and the first wait on the follower.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForRecord(m.source))
}

// Update handles keys, window resizes and incoming records.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.kept = nil
			m.counts = make(map[detect.Family]int)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case recordMsg:
		m.add(ratelog.Record(msg))
		return m, waitForRecord(m.source)

	case followClosedMsg:
		m.closed = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the header, the newest records that fit and the footer.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ratewatch"))
	b.WriteString("  ")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d", m.counts[detect.RateLimit])))
	b.WriteString(" rate limit  ")
	b.WriteString(countStyle.Render(fmt.Sprintf("%d", m.counts[detect.Usage])))
	b.WriteString(" usage\n\n")

	// Each record takes a header line and one input line.
	room := (m.height - 5) / 2
	if room < 1 {
		room = 1
	}
	maxInput := m.width - 4
	if maxInput < 20 {
		maxInput = 20
	}

	shown := ratelog.Tail(m.kept, room)
	if len(shown) == 0 {
		b.WriteString(hintStyle.Render("  no warnings yet"))
		b.WriteString("\n")
	}
	for _, r := range shown {
		b.WriteString(FormatRecord(r, RecordOptions{Color: true, MaxInput: maxInput, OneLine: true}))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(hintStyle.Render("stopped watching " + m.path))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(hintStyle.Render(" watching " + m.path + " · c clear · q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
