// Package tui is the optional full-screen live view: the same lifecycle
// stream as the in-place reporter, drawn as a bubbletea program with a
// progress bar and a scrollable failure pane.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/speck-sh/speck/internal/coverage"
	"github.com/speck-sh/speck/pkg/grid"
	"github.com/speck-sh/speck/pkg/lifecycle"
	"github.com/speck-sh/speck/pkg/report"
	"github.com/speck-sh/speck/pkg/reporter"
)

type eventMsg lifecycle.Event
type streamClosedMsg struct{}

// Model is the bubbletea model for the live view.
type Model struct {
	events   <-chan lifecycle.Event
	provider coverage.Provider
	opts     reporter.Options
	styles   Styles

	width  int
	height int
	ready  bool

	total    int
	outcomes []bool
	passed   int
	failed   int
	builder  report.Builder

	viewport viewport.Model
	progress progress.Model

	done    bool
	summary string
	warn    string
	exit    int
}

// NewModel builds the view fed by events.
func NewModel(events <-chan lifecycle.Event, provider coverage.Provider, opts reporter.Options) Model {
	if provider == nil {
		provider = coverage.Static{}
	}
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return Model{
		events:   events,
		provider: provider,
		opts:     opts,
		styles:   DefaultStyles(),
		viewport: vp,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.done {
				return m, tea.Quit
			}
		case "up", "k", "down", "j", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 6
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - m.gridRows() - 9
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		m.ready = true
	case eventMsg:
		m.apply(lifecycle.Event(msg))
		if m.done {
			return m, nil
		}
		return m, m.listen()
	case streamClosedMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) apply(e lifecycle.Event) {
	switch e.Kind {
	case lifecycle.Start:
		m.total = e.Total
	case lifecycle.SuiteOpen:
		m.builder.Open(e.Title)
	case lifecycle.SuiteClose:
		m.builder.Close()
		m.refreshFailures()
	case lifecycle.Pass:
		m.outcomes = append(m.outcomes, true)
		m.passed++
	case lifecycle.Fail:
		m.outcomes = append(m.outcomes, false)
		m.failed++
		m.builder.Fail(e.Title, e.Message)
	case lifecycle.End:
		m.finish()
	}
}

func (m *Model) refreshFailures() {
	var sb strings.Builder
	ropts := report.Options{Palette: grid.MonochromePalette(), Messages: m.opts.Messages, Width: m.viewport.Width}
	for _, root := range m.builder.Roots() {
		root.Render(&sb, 0, ropts)
	}
	m.viewport.SetContent(sb.String())
}

// finish settles the run: an unreadable coverage source degrades to an
// empty snapshot with a visible warning, same as the in-place reporter.
func (m *Model) finish() {
	snap, err := m.provider.Snapshot()
	if err != nil {
		m.warn = fmt.Sprintf("reading coverage: %v", err)
		snap = coverage.Snapshot{}
	}
	m.summary = fmt.Sprintf("%d passed  %d failed  %s", m.passed, m.failed, snap.Text())
	if reporter.Gate(snap, m.opts.Threshold, m.opts.Formula) {
		m.exit = 1
	}
	m.refreshFailures()
	m.done = true
}

// ExitCode is the process exit code once the run has finished.
func (m Model) ExitCode() int { return m.exit }

func (m Model) gridRows() int {
	cols := m.gridCols()
	if cols <= 0 || m.total == 0 {
		return 1
	}
	return (m.total + cols - 1) / cols
}

func (m Model) gridCols() int {
	cols := m.width - 4
	if cols <= 0 {
		cols = 80
	}
	return cols
}

// status returns the title-cased run state label.
func (m Model) status() string {
	caser := cases.Title(language.English)
	switch {
	case !m.done:
		return caser.String("running")
	case m.failed > 0 || m.exit != 0:
		return caser.String("failed")
	default:
		return caser.String("passed")
	}
}

func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("speck") + "  " + m.styles.Muted.Render(m.status()) + "\n\n")

	b.WriteString(m.renderGrid() + "\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(len(m.outcomes)) / float64(m.total)
	}
	b.WriteString("  " + m.progress.ViewAs(frac) + "\n\n")

	if m.summary != "" {
		b.WriteString("  " + m.styles.Summary.Render(m.summary) + "\n")
		if m.warn != "" {
			b.WriteString("  " + m.styles.Fail.Render(m.warn) + "\n")
		}
	} else {
		b.WriteString("  " + m.styles.Muted.Render(fmt.Sprintf("%d/%d", len(m.outcomes), m.total)) + "\n")
	}

	if m.viewport.Height > 0 {
		b.WriteString(m.styles.Pane.Render(m.viewport.View()) + "\n")
	}
	if m.done {
		b.WriteString(m.styles.Muted.Render("  q to quit"))
	}
	return b.String()
}

// renderGrid draws the dot grid with lipgloss styles, wrapped to fit.
func (m Model) renderGrid() string {
	cols := m.gridCols()
	var sb strings.Builder
	col := 0
	sb.WriteString("  ")
	for i := 0; i < m.total; i++ {
		switch {
		case i >= len(m.outcomes):
			sb.WriteString(m.styles.Pending.Render("·"))
		case m.outcomes[i]:
			sb.WriteString(m.styles.Pass.Render("·"))
		default:
			sb.WriteString(m.styles.Fail.Render("✗"))
		}
		col++
		if col == cols && i < m.total-1 {
			sb.WriteString("\n  ")
			col = 0
		}
	}
	return sb.String()
}

// Run drives the full-screen view and returns the process exit code.
func Run(ctx context.Context, events <-chan lifecycle.Event, provider coverage.Provider, opts reporter.Options) (int, error) {
	p := tea.NewProgram(NewModel(events, provider, opts), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return 1, err
	}
	return final.(Model).ExitCode(), nil
}
