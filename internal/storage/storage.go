// Package storage provides the key/value backends that hold persisted statistics.
//
// Each backend stores a single value under a fixed key. Save always overwrites
// the whole value.
package storage

import (
	"errors"
	"fmt"
	"sync"
)

// Key is the fixed key the statistics mapping is stored under.
const Key = "pomodoro_stats"

// ErrNotFound indicates no value has been saved yet.
var ErrNotFound = errors.New("storage: no value stored")

// Kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Backend loads and saves the raw bytes of one value.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Close() error
}

// Open creates the backend of the given kind rooted at dataDir.
func Open(kind, dataDir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFile(dataDir), nil
	case KindSQLite:
		return NewSQLite(dataDir)
	case KindMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}

// Memory keeps the value in process memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte{}, data...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
