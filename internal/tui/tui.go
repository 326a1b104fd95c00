// Package tui is a terminal front-end over the timer and statistics store.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"pomodoro/internal/stats"
	"pomodoro/internal/timer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E05D44")).
			Padding(0, 1)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E05D44")).
			Bold(true)

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F"))

	statLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type snapshotMsg timer.Snapshot

type closedMsg struct{}

// Model renders the timer and forwards key presses to it.
type Model struct {
	timer   *timer.Machine
	stats   *stats.Store
	events  <-chan timer.Snapshot
	presets map[timer.Mode][]int

	snap    timer.Snapshot
	summary stats.Summary
	err     error
}

// New subscribes to machine and returns a model ready for tea.NewProgram.
func New(machine *timer.Machine, store *stats.Store, focusPresets, breakPresets []int) Model {
	return Model{
		timer:  machine,
		stats:  store,
		events: machine.Subscribe(),
		presets: map[timer.Mode][]int{
			timer.ModeFocus: focusPresets,
			timer.ModeBreak: breakPresets,
		},
		snap:    machine.Snapshot(),
		summary: store.Aggregate(),
	}
}

func waitForSnapshot(events <-chan timer.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case snapshotMsg:
		m.snap = timer.Snapshot(msg)
		m.summary = m.stats.Aggregate()
		return m, waitForSnapshot(m.events)
	case closedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s", " ":
		m.timer.Start()
	case "p":
		m.timer.Pause()
	case "r":
		m.timer.Reset()
	case "f":
		m.err = m.timer.SwitchMode(timer.ModeFocus)
	case "b":
		m.err = m.timer.SwitchMode(timer.ModeBreak)
	case "+", "=":
		m.err = m.stepPreset(1)
	case "-":
		m.err = m.stepPreset(-1)
	default:
		return m, nil
	}
	if m.err != nil {
		log.Warn("Key action failed", "key", msg.String(), "err", m.err)
	}
	m.snap = m.timer.Snapshot()
	m.summary = m.stats.Aggregate()
	return m, nil
}

// stepPreset moves the current mode's duration to the next larger (dir > 0)
// or smaller preset, wrapping around at the ends.
func (m Model) stepPreset(dir int) error {
	mode := m.snap.Mode
	presets := m.presets[mode]
	if len(presets) == 0 {
		return nil
	}
	current := m.snap.FocusMinutes
	if mode == timer.ModeBreak {
		current = m.snap.BreakMinutes
	}
	return m.timer.SetDuration(mode, nextPreset(presets, current, dir))
}

func nextPreset(presets []int, current, dir int) int {
	if dir > 0 {
		for _, p := range presets {
			if p > current {
				return p
			}
		}
		return presets[0]
	}
	for i := len(presets) - 1; i >= 0; i-- {
		if presets[i] < current {
			return presets[i]
		}
	}
	return presets[len(presets)-1]
}

func (m Model) View() string {
	var b strings.Builder

	modeStyle := focusStyle
	if m.snap.Mode == timer.ModeBreak {
		modeStyle = breakStyle
	}

	b.WriteString(titleStyle.Render("🍅 Pomodoro"))
	b.WriteString("  ")
	b.WriteString(modeStyle.Render(strings.ToUpper(string(m.snap.Mode))))
	b.WriteString(fmt.Sprintf("  (%s)\n\n", m.snap.Status))

	b.WriteString(clockStyle.Render(fmt.Sprintf("%s:%s", m.snap.Minutes, m.snap.Seconds)))
	b.WriteString("\n")
	b.WriteString(messageStyle.Render(m.snap.Message))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %d min   %s %d min\n",
		statLabelStyle.Render("focus"), m.snap.FocusMinutes,
		statLabelStyle.Render("break"), m.snap.BreakMinutes)

	f := m.summary.Formatted()
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		statLabelStyle.Render("today"), f.Today,
		statLabelStyle.Render("month"), f.Month,
		statLabelStyle.Render("year"), f.Year)

	if m.err != nil {
		b.WriteString("\n" + m.err.Error() + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s start • p pause • r reset • f focus • b break • +/- duration • q quit"))
	b.WriteString("\n")
	return b.String()
}
