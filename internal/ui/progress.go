package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"prettydebug/internal/report"
	"prettydebug/internal/textutil"
)

// stageInfo is how a report stage shows up in the view: its verb and the
// share of the work an input has finished once it enters the stage.
type stageInfo struct {
	verb   string
	weight float64
}

var stages = map[report.Stage]stageInfo{
	report.StageParse:    {"parsing", 0.2},
	report.StageClassify: {"classifying", 0.4},
	report.StageFilter:   {"filtering", 0.6},
	report.StageRender:   {"rendering", 0.8},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const statusWidth = 12

type inputRow struct {
	name    string
	status  report.Status
	stage   report.Stage
	elapsed time.Duration
	err     error
}

// label is the status column text.
func (r inputRow) label() string {
	if r.status == report.StatusWorking {
		if info, ok := stages[r.stage]; ok {
			return info.verb
		}
	}
	return string(r.status)
}

func (r inputRow) style() lipgloss.Style {
	switch r.status {
	case report.StatusDone:
		return doneStyle
	case report.StatusError:
		return errorStyle
	case report.StatusWorking:
		return workingStyle
	default:
		return queuedStyle
	}
}

// share is how much of this input's work is finished, from 0 to 1.
func (r inputRow) share() float64 {
	switch r.status {
	case report.StatusDone, report.StatusError:
		return 1
	case report.StatusWorking:
		return stages[r.stage].weight
	default:
		return 0
	}
}

type progressModel struct {
	title   string
	events  <-chan report.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []inputRow
	byName  map[string]int
	width   int
	done    bool
}

type eventMsg report.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model with one row per input. It
// quits once events is closed.
func NewProgressModel(title string, inputs []string, events <-chan report.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient()),
		rows:    make([]inputRow, len(inputs)),
		byName:  make(map[string]int, len(inputs)),
	}
	for i, name := range inputs {
		m.rows[i] = inputRow{name: name, status: report.StatusQueued}
		m.byName[name] = i
	}
	m.resize(80)
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(report.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	finished := 0
	for _, r := range m.rows {
		if r.status == report.StatusDone || r.status == report.StatusError {
			finished++
		}
	}
	header := fmt.Sprintf("%s %d/%d", m.title, finished, len(m.rows))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-16, 20)
	for _, r := range m.rows {
		status := r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s", status, fitWidth(r.name, nameWidth))
		switch {
		case r.err != nil:
			b.WriteString("  " + errorStyle.Render(fitWidth(r.err.Error(), nameWidth)))
		case r.status == report.StatusDone && r.elapsed > 0:
			b.WriteString("  " + queuedStyle.Render(r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	m.bar.Width = width - 4
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply folds ev into its row and moves the bar. Events for inputs the
// view does not list are dropped.
func (m *progressModel) apply(ev report.Event) tea.Cmd {
	i, ok := m.byName[ev.Input]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	r.status = ev.Status
	if ev.Stage != "" {
		r.stage = ev.Stage
	}
	if ev.Elapsed > 0 {
		r.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		r.err = ev.Err
	}

	var total float64
	for _, row := range m.rows {
		total += row.share()
	}
	return m.bar.SetPercent(total / float64(len(m.rows)))
}

// fitWidth cuts the middle out of long text so both ends stay visible.
func fitWidth(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return textutil.Ellipsis(s, width)
}
