// Package stats accumulates completed focus minutes per calendar day and
// derives today/month/year totals.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"pomodoro/internal/storage"
)

const dayLayout = "2006-01-02"

// Backend persists the serialized mapping. Load returns storage.ErrNotFound
// when nothing has been stored yet.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Summary holds minute totals for the current day, month and year.
type Summary struct {
	Today int `json:"today"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// FormattedSummary is Summary rendered for display.
type FormattedSummary struct {
	Today string `json:"today"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

func (s Summary) Formatted() FormattedSummary {
	return FormattedSummary{
		Today: FormatMinutes(s.Today),
		Month: FormatMinutes(s.Month),
		Year:  FormatMinutes(s.Year),
	}
}

// DayStat is one entry of a history series.
type DayStat struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// Store maps day keys (YYYY-MM-DD) to focus minutes.
type Store struct {
	mu      sync.Mutex
	backend Backend
	byDay   map[string]int
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to pick today's key.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New loads the mapping from backend. Missing or unreadable data starts an
// empty mapping.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		byDay:   make(map[string]int),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := backend.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn("Failed to load stats, starting empty", "err", err)
		}
		return s
	}

	byDay, err := decode(data)
	if err != nil {
		log.Warn("Stored stats are corrupt, starting empty", "err", err)
		return s
	}
	s.byDay = byDay
	log.Info("Stats loaded", "days", len(byDay))
	return s
}

// DayKey formats t as a day key in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// FormatMinutes renders a minute count as "{h}h {m}m".
func FormatMinutes(total int) string {
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// RecordFocusMinutes adds minutes to today's entry and persists the mapping.
func (s *Store) RecordFocusMinutes(minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := DayKey(s.now())
	s.byDay[today] += minutes
	log.Info("Recorded focus minutes", "day", today, "minutes", minutes, "total", s.byDay[today])
	return s.saveLocked()
}

// Flush writes the current mapping to the backend unchanged.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// Aggregate sums minutes for today, this month and this year.
func (s *Store) Aggregate() Summary {
	return s.AggregateAt(s.now())
}

// AggregateAt is Aggregate evaluated as of t.
func (s *Store) AggregateAt(t time.Time) Summary {
	today := DayKey(t)
	month := today[:7]
	year := today[:4]

	s.mu.Lock()
	defer s.mu.Unlock()

	var sum Summary
	for day, minutes := range s.byDay {
		if day == today {
			sum.Today += minutes
		}
		if strings.HasPrefix(day, month) {
			sum.Month += minutes
		}
		if strings.HasPrefix(day, year) {
			sum.Year += minutes
		}
	}
	return sum
}

// Days returns a copy of the mapping.
func (s *Store) Days() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.byDay))
	for day, minutes := range s.byDay {
		out[day] = minutes
	}
	return out
}

// History returns one entry per day for the last days days ending today,
// oldest first. Days without focus time report zero.
func (s *Store) History(days int) []DayStat {
	return s.HistoryAt(days, s.now())
}

// HistoryAt is History evaluated as of t.
func (s *Store) HistoryAt(days int, t time.Time) []DayStat {
	if days <= 0 {
		return []DayStat{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DayStat, 0, days)
	start := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
	for i := days - 1; i >= 0; i-- {
		day := DayKey(start.AddDate(0, 0, -i))
		out = append(out, DayStat{Day: day, Minutes: s.byDay[day]})
	}
	return out
}

func (s *Store) saveLocked() error {
	data, err := json.Marshal(s.byDay)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

func decode(data []byte) (map[string]int, error) {
	byDay := make(map[string]int)
	if err := json.Unmarshal(data, &byDay); err != nil {
		return nil, fmt.Errorf("parse stats: %w", err)
	}
	// JSON null decodes to a nil map.
	if byDay == nil {
		byDay = make(map[string]int)
	}
	return byDay, nil
}
