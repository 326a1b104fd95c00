// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pomodoro/internal/storage"
)

const envFile = ".env"

// Config holds all settings for the pomodoro server and terminal client.
type Config struct {
	Addr    string `yaml:"addr"`
	DataDir string `yaml:"data_dir"`
	Store   string `yaml:"store"`

	FocusMinutes int   `yaml:"focus_minutes"`
	BreakMinutes int   `yaml:"break_minutes"`
	FocusPresets []int `yaml:"focus_presets"`
	BreakPresets []int `yaml:"break_presets"`

	TickInterval time.Duration `yaml:"tick_interval"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}

	return &Config{
		Addr:         ":8080",
		DataDir:      filepath.Join(home, ".local", "share", "pomodoro"),
		Store:        storage.KindFile,
		FocusMinutes: 40,
		BreakMinutes: 5,
		FocusPresets: []int{25, 40, 50, 60},
		BreakPresets: []int{5, 10, 15},
		TickInterval: time.Second,
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "pomodoro", "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path, a .env file in
// the working directory and finally the process environment.
// A missing YAML or .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env file", "err", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandTilde(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("POMODORO_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("POMODORO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("POMODORO_STORE"); v != "" {
		cfg.Store = v
	}
	for name, dst := range map[string]*int{
		"POMODORO_FOCUS_MINUTES": &cfg.FocusMinutes,
		"POMODORO_BREAK_MINUTES": &cfg.BreakMinutes,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Validate checks durations, presets and the store kind.
func (c *Config) Validate() error {
	if c.FocusMinutes <= 0 {
		return fmt.Errorf("focus_minutes must be positive, got %d", c.FocusMinutes)
	}
	if c.BreakMinutes <= 0 {
		return fmt.Errorf("break_minutes must be positive, got %d", c.BreakMinutes)
	}
	for _, p := range append(append([]int{}, c.FocusPresets...), c.BreakPresets...) {
		if p <= 0 {
			return fmt.Errorf("presets must be positive, got %d", p)
		}
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	switch c.Store {
	case storage.KindFile, storage.KindSQLite, storage.KindMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	return nil
}

// Save writes the config as YAML to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
