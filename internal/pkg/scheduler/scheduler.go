package scheduler

import (
	"log/slog"
	"sync"
)

// Flusher is a surface that commits pending drawing commands when flushed.
//
// Surfaces are used as map keys and must be comparable, e.g. pointers.
type Flusher interface {
	Flush() error
}

// Stats report the activity of a [Scheduler].
type Stats struct {
	Requests int
	Flushes  int
	Failures int
}

// Scheduler coalesces flush requests: there is at most one pending flush per surface.
//
// Each request cancels the flush previously scheduled for the same surface, if it has not run yet,
// and defers a new one. Several requests issued within the same turn thus result in a single flush.
//
// A flush already deferred when its owner is discarded still runs against the old surface.
// This is benign: the surface only commits what was drawn on it.
type Scheduler struct {
	exec Executor

	mu      sync.Mutex
	pending map[Flusher]Handle
	stats   Stats
	l       *slog.Logger
}

// New builds a flush [Scheduler] deferring flushes with the given [Executor].
func New(exec Executor) *Scheduler {
	return &Scheduler{
		exec:    exec,
		pending: make(map[Flusher]Handle),
		l:       slog.Default().With(slog.String("module", "scheduler")),
	}
}

// RequestFlush schedules a flush of the surface at the next idle point, replacing any pending flush for it.
func (s *Scheduler) RequestFlush(surface Flusher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Requests++
	if previous, ok := s.pending[surface]; ok {
		previous.Cancel()
	}

	var handle Handle
	handle = s.exec.Defer(func() {
		s.mu.Lock()
		if s.pending[surface] == handle {
			delete(s.pending, surface)
		}
		s.mu.Unlock()

		s.flush(surface)
	})
	s.pending[surface] = handle
}

// IsPending reports whether a flush is scheduled for the surface.
func (s *Scheduler) IsPending(surface Flusher) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.pending[surface]

	return ok
}

// Stats returns a snapshot of the scheduler activity.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

func (s *Scheduler) flush(surface Flusher) {
	err := surface.Flush()

	s.mu.Lock()
	if err != nil {
		s.stats.Failures++
	} else {
		s.stats.Flushes++
	}
	s.mu.Unlock()

	if err != nil {
		// there is no caller left to return the error to
		s.l.Warn("flush failed", slog.String("error", err.Error()))

		return
	}

	s.l.Debug("surface flushed")
}
