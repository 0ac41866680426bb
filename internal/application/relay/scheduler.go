// internal/application/relay/scheduler.go
package relay

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the scheduler uses.
type Timer interface {
	Stop() bool
}

// AfterFunc starts a one-shot timer. Swapped out in tests.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc wraps time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type pendingClose struct {
	gen   uint64
	timer Timer
	run   func()
}

// CloseScheduler keeps at most one pending close per key.
//
// Scheduling a key that already has a pending close cancels the old one.
// A timer that fires after being superseded is a no-op.
type CloseScheduler struct {
	mu        sync.Mutex
	afterFunc AfterFunc
	pending   map[string]*pendingClose
	gen       uint64
	closed    bool
}

func NewCloseScheduler(af AfterFunc) *CloseScheduler {
	if af == nil {
		af = RealAfterFunc
	}
	return &CloseScheduler{
		afterFunc: af,
		pending:   make(map[string]*pendingClose),
	}
}

// Schedule arranges for run to be called after d. It reports whether a
// pending close for key was replaced. After Flush it does nothing.
func (s *CloseScheduler) Schedule(key string, d time.Duration, run func()) (replaced bool, scheduled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, false
	}
	if old, ok := s.pending[key]; ok {
		old.timer.Stop()
		replaced = true
	}

	s.gen++
	p := &pendingClose{gen: s.gen, run: run}
	gen := s.gen
	p.timer = s.afterFunc(d, func() { s.fire(key, gen) })
	s.pending[key] = p
	return replaced, true
}

func (s *CloseScheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok || p.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	p.run()
}

func (s *CloseScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

func (s *CloseScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush stops every timer, runs the pending closes now (in the caller's
// goroutine) and refuses further scheduling. It returns how many ran.
func (s *CloseScheduler) Flush() int {
	s.mu.Lock()
	s.closed = true
	runs := make([]func(), 0, len(s.pending))
	for key, p := range s.pending {
		p.timer.Stop()
		runs = append(runs, p.run)
		delete(s.pending, key)
	}
	s.mu.Unlock()

	for _, run := range runs {
		run()
	}
	return len(runs)
}
