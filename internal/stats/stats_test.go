package stats

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"pomodoro/internal/storage"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 9, 30, 0, 0, time.Local)
	}
}

func seeded(t *testing.T, data string) *storage.Memory {
	t.Helper()
	mem := storage.NewMemory()
	if err := mem.Save([]byte(data)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return mem
}

type failingBackend struct {
	loadErr error
	saveErr error
}

func (f failingBackend) Load() ([]byte, error) { return nil, f.loadErr }
func (f failingBackend) Save([]byte) error     { return f.saveErr }

func TestAggregate(t *testing.T) {
	mem := seeded(t, `{"2024-01-15": 40, "2024-01-20": 25, "2023-12-31": 10}`)
	store := New(mem, WithClock(fixedClock(2024, time.January, 20)))

	got := store.Aggregate()
	want := Summary{Today: 25, Month: 65, Year: 65}
	if got != want {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}

	got = store.AggregateAt(time.Date(2023, time.December, 31, 23, 0, 0, 0, time.Local))
	want = Summary{Today: 10, Month: 10, Year: 10}
	if got != want {
		t.Errorf("AggregateAt(2023-12-31) = %+v, want %+v", got, want)
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{
		0:    "0h 0m",
		5:    "0h 5m",
		60:   "1h 0m",
		125:  "2h 5m",
		1441: "24h 1m",
	}
	for in, want := range cases {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSummaryFormatted(t *testing.T) {
	f := Summary{Today: 40, Month: 125, Year: 600}.Formatted()
	if f.Today != "0h 40m" || f.Month != "2h 5m" || f.Year != "10h 0m" {
		t.Errorf("Unexpected formatted summary %+v", f)
	}
}

func TestRecordFocusMinutes(t *testing.T) {
	mem := storage.NewMemory()
	store := New(mem, WithClock(fixedClock(2024, time.March, 3)))

	if err := store.RecordFocusMinutes(40); err != nil {
		t.Fatalf("RecordFocusMinutes: %v", err)
	}
	if err := store.RecordFocusMinutes(25); err != nil {
		t.Fatalf("RecordFocusMinutes: %v", err)
	}

	if got := store.Days()["2024-03-03"]; got != 65 {
		t.Errorf("Expected 65 minutes today, got %d", got)
	}

	data, err := mem.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `{"2024-03-03":65}` {
		t.Errorf("Unexpected persisted data %s", data)
	}
}

func TestRecordPersistsAcrossStores(t *testing.T) {
	mem := storage.NewMemory()
	clock := fixedClock(2024, time.March, 3)

	first := New(mem, WithClock(clock))
	if err := first.RecordFocusMinutes(40); err != nil {
		t.Fatalf("RecordFocusMinutes: %v", err)
	}

	second := New(mem, WithClock(clock))
	if got := second.Aggregate().Today; got != 40 {
		t.Errorf("Expected reloaded store to report 40, got %d", got)
	}
}

func TestRecordSaveError(t *testing.T) {
	store := New(failingBackend{loadErr: storage.ErrNotFound, saveErr: errors.New("read-only")})
	if err := store.RecordFocusMinutes(5); err == nil {
		t.Errorf("Expected save error to surface")
	}
	// The in-memory total still counts.
	if got := store.Aggregate().Today; got != 5 {
		t.Errorf("Expected 5 minutes in memory, got %d", got)
	}
}

func TestCorruptDataLoadsEmpty(t *testing.T) {
	for _, data := range []string{`{not json`, `["a"]`, `{"2024-01-01":"ten"}`, `null`} {
		store := New(seeded(t, data))
		if days := store.Days(); len(days) != 0 {
			t.Errorf("Expected empty mapping for %q, got %v", data, days)
		}
		if err := store.RecordFocusMinutes(1); err != nil {
			t.Errorf("RecordFocusMinutes after corrupt load: %v", err)
		}
	}
}

func TestLoadErrorStartsEmpty(t *testing.T) {
	store := New(failingBackend{loadErr: errors.New("permission denied")})
	if got := store.Aggregate(); got != (Summary{}) {
		t.Errorf("Expected zero summary, got %+v", got)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	mem := storage.NewMemory()
	store := New(mem, WithClock(fixedClock(2024, time.January, 20)))
	for _, m := range []int{40, 25, 50} {
		if err := store.RecordFocusMinutes(m); err != nil {
			t.Fatalf("RecordFocusMinutes: %v", err)
		}
	}
	before, _ := mem.Load()

	reloaded := New(mem)
	if err := reloaded.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	after, _ := mem.Load()

	if !bytes.Equal(before, after) {
		t.Errorf("Round trip changed bytes: %s -> %s", before, after)
	}
}

func TestHistory(t *testing.T) {
	mem := seeded(t, `{"2024-02-28": 40, "2024-03-01": 25, "2024-01-01": 99}`)
	store := New(mem, WithClock(fixedClock(2024, time.March, 1)))

	got := store.History(3)
	want := []DayStat{
		{Day: "2024-02-28", Minutes: 40},
		{Day: "2024-02-29", Minutes: 0},
		{Day: "2024-03-01", Minutes: 25},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("History[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if empty := store.History(0); len(empty) != 0 {
		t.Errorf("Expected empty history, got %v", empty)
	}
}

func TestDaysIsCopy(t *testing.T) {
	store := New(seeded(t, `{"2024-01-01": 10}`))
	days := store.Days()
	days["2024-01-01"] = 999
	if store.Days()["2024-01-01"] != 10 {
		t.Errorf("Days must return a copy")
	}
}
