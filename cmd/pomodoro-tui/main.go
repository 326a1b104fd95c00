package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"pomodoro/internal/config"
	"pomodoro/internal/stats"
	"pomodoro/internal/storage"
	"pomodoro/internal/timer"
	"pomodoro/internal/tui"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to the YAML config file")
	flag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintln(os.Stderr, "pomodoro-tui:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The terminal UI owns the screen; logs go to a file in the data dir.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "pomodoro-tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetTimeFormat(time.Stamp)

	backend, err := storage.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open stats store: %w", err)
	}
	defer backend.Close()

	store := stats.New(backend)
	machine := timer.New(timer.Config{
		FocusMinutes: cfg.FocusMinutes,
		BreakMinutes: cfg.BreakMinutes,
		TickInterval: cfg.TickInterval,
	}, timer.TickerScheduler{}, store)
	defer machine.Close()

	model := tui.New(machine, store, cfg.FocusPresets, cfg.BreakPresets)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
