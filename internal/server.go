package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"pomodoro/internal/config"
	"pomodoro/internal/stats"
	"pomodoro/internal/storage"
	"pomodoro/internal/timer"
)

// ErrUnknownCommand is returned by Execute for unrecognised commands.
var ErrUnknownCommand = errors.New("unknown command")

// View is the full display state pushed to clients.
type View struct {
	Event  string                 `json:"event"`
	Timer  timer.Snapshot         `json:"timer"`
	Stats  stats.FormattedSummary `json:"stats"`
	Totals stats.Summary          `json:"totals"`
}

// ErrorMessage reports a rejected websocket command.
type ErrorMessage struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// Server encapsulates all the state and handlers for the pomodoro application
type Server struct {
	Config   *config.Config
	Timer    *timer.Machine
	Stats    *stats.Store
	Hub      *Hub
	StaticFS fs.FS
	backend  storage.Backend
	events   <-chan timer.Snapshot
	upgrader websocket.Upgrader
}

// NewServer opens the configured stats backend and wires the timer to it.
func NewServer(cfg *config.Config, staticFS fs.FS) (*Server, error) {
	backend, err := storage.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open stats store: %w", err)
	}
	log.Info("Stats store opened", "kind", cfg.Store, "dir", cfg.DataDir)
	return NewServerWith(cfg, backend, timer.TickerScheduler{}, staticFS), nil
}

// NewServerWith builds a server around an existing backend and scheduler.
func NewServerWith(cfg *config.Config, backend storage.Backend, scheduler timer.Scheduler, staticFS fs.FS) *Server {
	statsStore := stats.New(backend)
	machine := timer.New(timer.Config{
		FocusMinutes: cfg.FocusMinutes,
		BreakMinutes: cfg.BreakMinutes,
		TickInterval: cfg.TickInterval,
	}, scheduler, statsStore)

	return &Server{
		Config:   cfg,
		Timer:    machine,
		Stats:    statsStore,
		Hub:      NewHub(),
		StaticFS: staticFS,
		backend:  backend,
		events:   machine.Subscribe(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// View returns the current timer state together with the statistics.
func (s *Server) View() View {
	return s.viewOf(s.Timer.Snapshot())
}

func (s *Server) viewOf(snap timer.Snapshot) View {
	totals := s.Stats.Aggregate()
	return View{
		Event:  "state",
		Timer:  snap,
		Stats:  totals.Formatted(),
		Totals: totals,
	}
}

// Run forwards every timer change to connected clients until ctx is done.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-s.events:
			if !ok {
				return
			}
			s.Hub.Broadcast(s.viewOf(snap))
		}
	}
}

// Execute applies a textual command such as "start" or "focus:25".
func (s *Server) Execute(command string) error {
	name, arg, hasArg := strings.Cut(command, ":")
	name, arg = strings.TrimSpace(name), strings.TrimSpace(arg)
	switch {
	case name == "start" && !hasArg:
		s.Timer.Start()
	case name == "pause" && !hasArg:
		s.Timer.Pause()
	case name == "reset" && !hasArg:
		s.Timer.Reset()
	case name == "mode" && hasArg:
		mode, err := timer.ParseMode(arg)
		if err != nil {
			return err
		}
		return s.Timer.SwitchMode(mode)
	case (name == string(timer.ModeFocus) || name == string(timer.ModeBreak)) && hasArg:
		minutes, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %q", timer.ErrInvalidDuration, arg)
		}
		return s.Timer.SetDuration(timer.Mode(name), minutes)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	return nil
}

// Close stops the timer and flushes statistics.
func (s *Server) Close() error {
	s.Timer.Close()
	var errs []error
	if err := s.Stats.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := s.backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close stats store: %w", err))
	}
	return errors.Join(errs...)
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes configures all HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HealthHandler)
	mux.HandleFunc("/api/timer", s.TimerHandler)
	mux.HandleFunc("/api/timer/", s.TimerActionHandler)
	mux.HandleFunc("/api/mode", s.ModeHandler)
	mux.HandleFunc("/api/duration", s.DurationHandler)
	mux.HandleFunc("/api/stats", s.StatsHandler)
	mux.HandleFunc("/api/history", s.HistoryHandler)
	mux.HandleFunc("/api/presets", s.PresetsHandler)
	mux.HandleFunc("/connect", s.WebsocketHandler)
	if s.StaticFS != nil {
		mux.Handle("/", http.FileServer(http.FS(s.StaticFS)))
	}

	return corsMiddleware(mux)
}
