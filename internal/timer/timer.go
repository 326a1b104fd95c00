// Package timer implements the focus/break countdown state machine.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidDuration is returned when a session length is not a positive number of minutes.
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	// ErrUnknownMode is returned for modes other than focus and break.
	ErrUnknownMode = errors.New("unknown mode")
)

const (
	DefaultFocusMinutes = 40
	DefaultBreakMinutes = 5
)

// Recorder receives completed focus minutes.
type Recorder interface {
	RecordFocusMinutes(minutes int) error
}

// Config contains the initial durations and tick rate.
type Config struct {
	FocusMinutes int
	BreakMinutes int
	TickInterval time.Duration
}

// transition describes what happens when a session of a given mode runs out.
type transition struct {
	next    Mode
	record  bool
	message string
}

var completions = map[Mode]transition{
	ModeFocus: {next: ModeBreak, record: true, message: "focus complete, time for a break"},
	ModeBreak: {next: ModeFocus, message: "break over, back to focus"},
}

var startMessages = map[Mode]string{
	ModeFocus: "focusing...",
	ModeBreak: "on a break...",
}

// Machine owns the countdown. All state changes happen under mu, and every
// path that clears running also clears handle.
type Machine struct {
	mu        sync.Mutex
	config    Config
	scheduler Scheduler
	recorder  Recorder

	mode      Mode
	remaining int
	running   bool
	handle    Handle
	// generation identifies the current handle; ticks from older handles are dropped.
	generation uint64
	// version increases with every emitted change.
	version uint64
	message string

	events []chan Snapshot
	closed bool
}

// New creates a Machine in focus mode with the full focus duration remaining.
func New(config Config, scheduler Scheduler, recorder Recorder) *Machine {
	if config.FocusMinutes <= 0 {
		config.FocusMinutes = DefaultFocusMinutes
	}
	if config.BreakMinutes <= 0 {
		config.BreakMinutes = DefaultBreakMinutes
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if scheduler == nil {
		scheduler = TickerScheduler{}
	}

	m := &Machine{
		config:    config,
		scheduler: scheduler,
		recorder:  recorder,
		mode:      ModeFocus,
		message:   "ready",
	}
	m.remaining = m.durationLocked(m.mode)
	return m
}

// Subscribe registers an observer channel holding at most one snapshot. A slow
// observer skips intermediate snapshots but always receives the latest one.
func (m *Machine) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		close(ch)
		return ch
	}
	m.events = append(m.events, ch)
	return ch
}

// Close cancels any scheduled tick and closes observer channels.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.cancelLocked()
	m.closed = true
	for _, ch := range m.events {
		close(ch)
	}
	m.events = nil
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Start begins or resumes the countdown. It does nothing if already running.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running || m.closed {
		return
	}
	m.startLocked()
	m.emitLocked()
}

// Pause stops the countdown and keeps the remaining time.
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.cancelLocked()
	m.message = "paused"
	log.Info("Timer paused", "mode", m.mode, "remaining", m.remaining)
	m.emitLocked()
}

// Reset stops the countdown and refills the current mode's duration.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.remaining = m.durationLocked(m.mode)
	m.message = "reset"
	log.Info("Timer reset", "mode", m.mode, "remaining", m.remaining)
	m.emitLocked()
}

// SwitchMode stops the countdown and moves to target with a full duration.
// Switching to the current mode does nothing.
func (m *Machine) SwitchMode(target Mode) error {
	if _, ok := completions[target]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, target)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if target == m.mode {
		return nil
	}
	m.switchModeLocked(target)
	m.emitLocked()
	return nil
}

// SetFocusDuration changes the focus length.
func (m *Machine) SetFocusDuration(minutes int) error {
	return m.setDuration(ModeFocus, minutes)
}

// SetBreakDuration changes the break length.
func (m *Machine) SetBreakDuration(minutes int) error {
	return m.setDuration(ModeBreak, minutes)
}

// SetDuration changes the length of the given mode.
func (m *Machine) SetDuration(mode Mode, minutes int) error {
	if _, ok := completions[mode]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return m.setDuration(mode, minutes)
}

func (m *Machine) setDuration(mode Mode, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, minutes)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if mode == ModeFocus {
		m.config.FocusMinutes = minutes
	} else {
		m.config.BreakMinutes = minutes
	}

	if mode == m.mode {
		full := m.durationLocked(mode)
		switch {
		case !m.running:
			m.remaining = full
		case m.remaining > full:
			m.remaining = full
		}
	}

	m.message = fmt.Sprintf("%s duration set to %d minutes", mode, minutes)
	log.Info("Duration changed", "mode", mode, "minutes", minutes)
	m.emitLocked()
	return nil
}

func (m *Machine) tick(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || generation != m.generation {
		return
	}

	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining == 0 {
		m.completeLocked()
	} else {
		log.Debug("Tick", "mode", m.mode, "remaining", m.remaining)
	}
	m.emitLocked()
}

// completeLocked runs the transition table entry for the finished mode and
// starts the next session right away.
func (m *Machine) completeLocked() {
	finished := m.mode
	t := completions[finished]
	m.cancelLocked()

	if t.record && m.recorder != nil {
		minutes := m.config.FocusMinutes
		if err := m.recorder.RecordFocusMinutes(minutes); err != nil {
			log.Error("Failed to record focus minutes", "minutes", minutes, "err", err)
		}
	}

	log.Info("Session complete", "mode", finished, "next", t.next)
	m.switchModeLocked(t.next)
	m.startLocked()
	m.message = t.message
}

func (m *Machine) startLocked() {
	if m.remaining <= 0 {
		m.remaining = m.durationLocked(m.mode)
	}
	m.generation++
	generation := m.generation
	m.handle = m.scheduler.Every(m.config.TickInterval, func() {
		m.tick(generation)
	})
	m.running = true
	m.message = startMessages[m.mode]
	log.Info("Timer started", "mode", m.mode, "remaining", m.remaining)
}

func (m *Machine) switchModeLocked(target Mode) {
	m.cancelLocked()
	m.mode = target
	m.remaining = m.durationLocked(target)
	m.message = fmt.Sprintf("switched to %s mode", target)
	log.Info("Mode switched", "mode", target, "remaining", m.remaining)
}

func (m *Machine) cancelLocked() {
	if m.handle != nil {
		m.handle.Stop()
		m.handle = nil
	}
	m.running = false
}

func (m *Machine) durationLocked(mode Mode) int {
	if mode == ModeBreak {
		return m.config.BreakMinutes * 60
	}
	return m.config.FocusMinutes * 60
}

func (m *Machine) statusLocked() Status {
	if m.running {
		return StatusRunning
	}
	if m.remaining == m.durationLocked(m.mode) {
		return StatusIdle
	}
	return StatusPaused
}

func (m *Machine) snapshotLocked() Snapshot {
	minutes, seconds := clockFields(m.remaining)
	return Snapshot{
		Mode:             m.mode,
		Status:           m.statusLocked(),
		RemainingSeconds: m.remaining,
		Minutes:          minutes,
		Seconds:          seconds,
		FocusMinutes:     m.config.FocusMinutes,
		BreakMinutes:     m.config.BreakMinutes,
		Message:          m.message,
		Version:          m.version,
	}
}

// emitLocked replaces any unread snapshot with the current one. Sends only
// happen under mu, so after draining the slot is free.
func (m *Machine) emitLocked() {
	m.version++
	snap := m.snapshotLocked()
	for _, ch := range m.events {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
