// Package scheduler coalesces surface flushes on a cooperative event loop.
package scheduler

import (
	"context"
	"sync"
)

// Handle is a deferred task that may be cancelled before it runs.
type Handle interface {
	// Cancel the task. It reports whether the task was still pending.
	Cancel() bool
}

// Executor defers functions to a later turn.
type Executor interface {
	Defer(fn func()) Handle
}

type task struct {
	mu       sync.Mutex
	fn       func()
	finished bool
}

func (t *task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return false
	}
	t.finished = true

	return true
}

// claim marks the task as run, and reports whether it should run.
func (t *task) claim() bool {
	return t.Cancel()
}

// Loop is a single-threaded cooperative event loop.
//
// Events posted with [Loop.Post] run one at a time, in order. Tasks deferred with [Loop.Defer] run at the next
// idle point: after the current event completes, or when [Loop.RunPending] is called.
// Nothing else yields: all the work done by an event runs synchronously within its turn.
type Loop struct {
	events chan func()

	mu      sync.Mutex
	pending []*task
}

const defaultEventQueue = 64

// NewLoop builds an event [Loop].
func NewLoop() *Loop {
	return &Loop{
		events: make(chan func(), defaultEventQueue),
	}
}

// Post an event to the loop. It is safe to call Post from any goroutine.
//
// Post blocks when the event queue is full.
func (l *Loop) Post(event func()) {
	l.events <- event
}

// Defer schedules fn to run at the next idle point.
func (l *Loop) Defer(fn func()) Handle {
	t := &task{fn: fn}

	l.mu.Lock()
	l.pending = append(l.pending, t)
	l.mu.Unlock()

	return t
}

// Pending returns the number of deferred tasks not run yet, cancelled tasks included.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pending)
}

// RunPending runs the deferred tasks scheduled so far, in order, and returns how many actually ran.
//
// Tasks deferred while running are left for the next idle point.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	tasks := l.pending
	l.pending = nil
	l.mu.Unlock()

	var ran int
	for _, t := range tasks {
		if !t.claim() {
			continue
		}

		t.fn()
		ran++
	}

	return ran
}

// Run processes posted events until the context is done.
//
// After each event, the deferred tasks are run. Pending tasks are run once more before returning.
func (l *Loop) Run(ctx context.Context) error {
	defer l.RunPending()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-l.events:
			event()
			l.RunPending()
		}
	}
}
