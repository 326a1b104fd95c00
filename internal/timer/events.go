package timer

import "fmt"

// Mode is the kind of session the timer is counting down.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// ParseMode converts a user supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFocus:
		return ModeFocus, nil
	case ModeBreak:
		return ModeBreak, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Status describes whether the countdown is active.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Snapshot is a copy of the timer state handed to observers.
type Snapshot struct {
	Mode             Mode   `json:"mode"`
	Status           Status `json:"status"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Minutes          string `json:"minutes"`
	Seconds          string `json:"seconds"`
	FocusMinutes     int    `json:"focus_minutes"`
	BreakMinutes     int    `json:"break_minutes"`
	Message          string `json:"message"`
	// Version orders snapshots; a larger version is a newer state.
	Version uint64 `json:"version"`
}

// Running reports whether a tick is scheduled.
func (s Snapshot) Running() bool {
	return s.Status == StatusRunning
}

func clockFields(remaining int) (string, string) {
	return fmt.Sprintf("%02d", remaining/60), fmt.Sprintf("%02d", remaining%60)
}
