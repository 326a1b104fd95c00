package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pomodoro/internal/stats"
	"pomodoro/internal/storage"
	"pomodoro/internal/timer"
)

func newTestModel() (Model, *timer.ManualScheduler) {
	sched := &timer.ManualScheduler{}
	store := stats.New(storage.NewMemory())
	machine := timer.New(timer.Config{FocusMinutes: 40, BreakMinutes: 5}, sched, store)
	return New(machine, store, []int{25, 40, 50}, []int{5, 10}), sched
}

func press(m Model, key string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(Model)
}

func TestKeysDriveTimer(t *testing.T) {
	m, sched := newTestModel()

	m = press(m, "s")
	if m.snap.Status != timer.StatusRunning {
		t.Fatalf("Expected running after s, got %s", m.snap.Status)
	}

	sched.Advance(3)
	m = press(m, "p")
	if m.snap.Status != timer.StatusPaused || m.snap.RemainingSeconds != 40*60-3 {
		t.Errorf("Unexpected state after pause %+v", m.snap)
	}

	m = press(m, "r")
	if m.snap.Status != timer.StatusIdle {
		t.Errorf("Expected idle after reset, got %s", m.snap.Status)
	}

	m = press(m, "b")
	if m.snap.Mode != timer.ModeBreak || m.snap.RemainingSeconds != 300 {
		t.Errorf("Expected break with 300s, got %+v", m.snap)
	}

	m = press(m, "f")
	if m.snap.Mode != timer.ModeFocus {
		t.Errorf("Expected focus mode, got %s", m.snap.Mode)
	}
}

func TestPresetKeys(t *testing.T) {
	m, _ := newTestModel()

	m = press(m, "+")
	if m.snap.FocusMinutes != 50 {
		t.Errorf("Expected 50 after +, got %d", m.snap.FocusMinutes)
	}
	m = press(m, "+")
	if m.snap.FocusMinutes != 25 {
		t.Errorf("Expected wrap to 25, got %d", m.snap.FocusMinutes)
	}
	m = press(m, "-")
	if m.snap.FocusMinutes != 50 {
		t.Errorf("Expected wrap back to 50, got %d", m.snap.FocusMinutes)
	}

	m = press(m, "b")
	m = press(m, "+")
	if m.snap.BreakMinutes != 10 || m.snap.RemainingSeconds != 600 {
		t.Errorf("Expected break of 10 minutes, got %+v", m.snap)
	}
}

func TestNextPreset(t *testing.T) {
	presets := []int{5, 10, 15}
	cases := []struct {
		current, dir, want int
	}{
		{5, 1, 10},
		{15, 1, 5},
		{7, 1, 10},
		{10, -1, 5},
		{5, -1, 15},
		{20, -1, 15},
	}
	for _, c := range cases {
		if got := nextPreset(presets, c.current, c.dir); got != c.want {
			t.Errorf("nextPreset(%d, %d) = %d, want %d", c.current, c.dir, got, c.want)
		}
	}
}

func TestSnapshotMessages(t *testing.T) {
	m, sched := newTestModel()
	cmd := m.Init()

	m = press(m, "s")
	sched.Advance(1)

	// The tick snapshot replaced the unread start snapshot.
	msg := cmd()
	updated, next := m.Update(msg)
	m = updated.(Model)
	if next == nil {
		t.Fatalf("Expected follow-up command to keep listening")
	}
	if m.snap.Status != timer.StatusRunning || m.snap.RemainingSeconds != 40*60-1 {
		t.Errorf("Expected latest running snapshot, got %+v", m.snap)
	}

	m.timer.Close()
	// Drain remaining snapshots until the close message arrives.
	for i := 0; i < 5; i++ {
		msg = next()
		if _, ok := msg.(closedMsg); ok {
			return
		}
		updated, next = m.Update(msg)
		m = updated.(Model)
	}
	t.Errorf("Expected closed message after Close")
}

func TestView(t *testing.T) {
	m, _ := newTestModel()
	view := m.View()
	for _, want := range []string{"40:00", "FOCUS", "today", "0h 0m", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg")
	}
}
