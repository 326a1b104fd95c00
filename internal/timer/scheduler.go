package timer

import (
	"sync"
	"time"
)

// Handle cancels a repeating callback created by a Scheduler.
type Handle interface {
	Stop()
}

// Scheduler runs fn repeatedly every interval until the returned Handle is stopped.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// TickerScheduler schedules callbacks on a time.Ticker driven goroutine.
type TickerScheduler struct{}

type tickerHandle struct {
	stopCh chan struct{}
	once   sync.Once
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.stopCh) })
}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	h := &tickerHandle{stopCh: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.stopCh:
				return
			case <-ticker.C:
				// A stop may race with a pending tick; prefer the stop.
				select {
				case <-h.stopCh:
					return
				default:
				}
				fn()
			}
		}
	}()
	return h
}

// ManualScheduler fires callbacks only when Advance is called. It lets tests and
// simulations drive the countdown without waiting on wall-clock time.
type ManualScheduler struct {
	mu      sync.Mutex
	handles []*manualHandle
}

type manualHandle struct {
	s       *ManualScheduler
	fn      func()
	stopped bool
}

func (h *manualHandle) Stop() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.stopped = true
}

// Every implements Scheduler.
func (s *ManualScheduler) Every(_ time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &manualHandle{s: s, fn: fn}
	s.handles = append(s.handles, h)
	return h
}

// Advance fires every active callback once per step, n steps in a row.
// Callbacks scheduled during a step first fire on the following step.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		for _, h := range s.activeHandles() {
			s.mu.Lock()
			stopped := h.stopped
			s.mu.Unlock()
			if !stopped {
				h.fn()
			}
		}
	}
}

// Active returns the number of callbacks that have not been stopped.
func (s *ManualScheduler) Active() int {
	return len(s.activeHandles())
}

func (s *ManualScheduler) activeHandles() []*manualHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.handles[:0]
	for _, h := range s.handles {
		if !h.stopped {
			active = append(active, h)
		}
	}
	s.handles = active
	return append([]*manualHandle(nil), active...)
}
