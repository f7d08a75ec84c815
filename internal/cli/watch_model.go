package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/edutrack/internal/cli/formatter"
	"github.com/alexanderramin/edutrack/internal/progress"
	"github.com/alexanderramin/edutrack/internal/service"
)

const watchHistorySize = 8

type watchEventMsg service.WatchEvent

// watchClosedMsg is sent once the event channel is closed.
type watchClosedMsg struct{}

type watchKeyMap struct {
	Quit key.Binding
}

// watchModel shows the live state of a course watch: a spinner while
// running, the course progress, and the most recent classified paths.
type watchModel struct {
	course   string
	dir      string
	events   <-chan service.WatchEvent
	spinner  spinner.Model
	keys     watchKeyMap
	progress progress.Progress
	recent   []string
	errors   int
	stopped  bool
}

func newWatchModel(course, dir string, initial progress.Progress, events <-chan service.WatchEvent) watchModel {
	return watchModel{
		course:   course,
		dir:      dir,
		events:   events,
		progress: initial,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(formatter.StylePurple),
		),
		keys: watchKeyMap{
			Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "stop watching")),
		},
	}
}

func waitForWatchEvent(events <-chan service.WatchEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return watchEventMsg(ev)
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForWatchEvent(m.events))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.stopped = true
			return m, tea.Quit
		}
	case watchEventMsg:
		m.record(service.WatchEvent(msg))
		return m, waitForWatchEvent(m.events)
	case watchClosedMsg:
		m.stopped = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.stopped {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *watchModel) record(ev service.WatchEvent) {
	line := formatWatchEvent(m.dir, ev)
	if ev.Err != nil {
		m.errors++
	} else if ev.Info != nil {
		m.progress = ev.Progress
	}
	m.recent = append(m.recent, line)
	if len(m.recent) > watchHistorySize {
		m.recent = m.recent[len(m.recent)-watchHistorySize:]
	}
}

func (m watchModel) View() string {
	var b strings.Builder

	state := m.spinner.View()
	if m.stopped {
		state = formatter.Dim("■")
	}
	fmt.Fprintf(&b, "%s Watching %s\n", state, formatter.Bold(m.course))
	fmt.Fprintf(&b, "  %s\n\n", formatter.ProgressLine(m.progress))

	if len(m.recent) == 0 {
		b.WriteString(formatter.Dim("  Waiting for new files...") + "\n")
	}
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	if m.errors > 0 {
		b.WriteString("\n" + formatter.StyleRed.Render(fmt.Sprintf("  %d errors", m.errors)) + "\n")
	}

	help := m.keys.Quit.Help()
	b.WriteString("\n" + formatter.Dim(help.Key+" "+help.Desc) + "\n")
	return b.String()
}
