// Package schedule provides repeating callbacks with owned cancellation handles.
package schedule

import (
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Scheduler runs fn every interval until the returned handle is cancelled.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// Real schedules callbacks on time.Ticker goroutines.
type Real struct{}

// Every starts a ticker goroutine. fn runs on that goroutine.
func (Real) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{done: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				select {
				case <-h.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.done) })
}

// Slot owns at most one live handle. Starting a slot cancels whatever it
// held before, so a logical timer never runs twice.
type Slot struct {
	mu     sync.Mutex
	handle Handle
}

// Start cancels the current handle, if any, and schedules fn.
func (s *Slot) Start(sched Scheduler, interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.handle = sched.Every(interval, fn)
}

// Stop cancels the current handle.
func (s *Slot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
}

// Active reports whether the slot holds a handle.
func (s *Slot) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}
