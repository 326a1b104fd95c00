package pomodoro

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"pomodoro/internal/stats"
	"pomodoro/internal/timer"
)

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 366
)

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Totals    stats.Summary          `json:"totals"`
	Formatted stats.FormattedSummary `json:"formatted"`
}

// PresetsResponse lists the selectable durations in minutes.
type PresetsResponse struct {
	Focus []int `json:"focus"`
	Break []int `json:"break"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error encoding response", "err", err)
	}
}

func writeTimerError(w http.ResponseWriter, err error) {
	if errors.Is(err, timer.ErrInvalidDuration) || errors.Is(err, timer.ErrUnknownMode) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Error("Timer operation failed", "err", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce plain
// @Success 200 {string} string "Healthy"
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// @Summary Get timer state
// @Description Returns the countdown, mode, status message and formatted statistics
// @Tags timer
// @Produce json
// @Success 200 {object} View
// @Failure 405 {string} string "Method not allowed"
// @Router /api/timer [get]
func (s *Server) TimerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.View())
}

// @Summary Control the countdown
// @Description Starts, pauses or resets the timer
// @Tags timer
// @Produce json
// @Param action path string true "start, pause or reset"
// @Success 200 {object} View
// @Failure 404 {string} string "Not found"
// @Failure 405 {string} string "Method not allowed"
// @Router /api/timer/{action} [post]
func (s *Server) TimerActionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/api/timer/")
	log.Info("Timer action", "action", action)
	switch action {
	case "start":
		s.Timer.Start()
	case "pause":
		s.Timer.Pause()
	case "reset":
		s.Timer.Reset()
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, s.View())
}

// @Summary Switch mode
// @Description Stops the countdown and switches to focus or break with a full duration
// @Tags timer
// @Accept x-www-form-urlencoded
// @Produce json
// @Param mode formData string true "focus or break"
// @Success 200 {object} View
// @Failure 400 {string} string "Bad request"
// @Failure 405 {string} string "Method not allowed"
// @Router /api/mode [post]
func (s *Server) ModeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	mode, err := timer.ParseMode(r.FormValue("mode"))
	if err != nil {
		writeTimerError(w, err)
		return
	}
	if err := s.Timer.SwitchMode(mode); err != nil {
		writeTimerError(w, err)
		return
	}
	writeJSON(w, s.View())
}

// @Summary Set a session length
// @Description Sets the focus or break duration in minutes. An idle or paused timer in that mode shows the new duration right away.
// @Tags timer
// @Accept x-www-form-urlencoded
// @Produce json
// @Param mode formData string true "focus or break"
// @Param minutes formData int true "Duration in minutes"
// @Success 200 {object} View
// @Failure 400 {string} string "Bad request"
// @Failure 405 {string} string "Method not allowed"
// @Router /api/duration [post]
func (s *Server) DurationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	mode, err := timer.ParseMode(r.FormValue("mode"))
	if err != nil {
		writeTimerError(w, err)
		return
	}
	minutes, err := strconv.Atoi(r.FormValue("minutes"))
	if err != nil {
		http.Error(w, "Failed to parse minutes", http.StatusBadRequest)
		return
	}
	if err := s.Timer.SetDuration(mode, minutes); err != nil {
		writeTimerError(w, err)
		return
	}
	writeJSON(w, s.View())
}

// @Summary Get focus statistics
// @Description Returns today's, this month's and this year's focus minutes
// @Tags stats
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 405 {string} string "Method not allowed"
// @Router /api/stats [get]
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	totals := s.Stats.Aggregate()
	writeJSON(w, StatsResponse{Totals: totals, Formatted: totals.Formatted()})
}

// @Summary Get focus history
// @Description Returns focus minutes per day for the last N days, oldest first
// @Tags stats
// @Produce json
// @Param days query int false "Number of days (default 7, max 366)"
// @Success 200 {array} stats.DayStat
// @Failure 400 {string} string "Bad request"
// @Failure 405 {string} string "Method not allowed"
// @Router /api/history [get]
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := defaultHistoryDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxHistoryDays {
			http.Error(w, "days must be between 1 and 366", http.StatusBadRequest)
			return
		}
		days = n
	}
	writeJSON(w, s.Stats.History(days))
}

// @Summary Get duration presets
// @Description Returns the preset focus and break durations offered by the UI
// @Tags timer
// @Produce json
// @Success 200 {object} PresetsResponse
// @Router /api/presets [get]
func (s *Server) PresetsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, PresetsResponse{Focus: s.Config.FocusPresets, Break: s.Config.BreakPresets})
}
