// Package ticker manages the background task attached to a node's lifetime.
//
// A stateful widget opts into periodic or awaited background work by having
// its State implement [Routine]. When the node mounts, the [Scheduler]
// starts exactly one goroutine running the routine; when the node is
// removed from the tree the task is canceled and no state cell mutation
// from it is observed afterward.
//
// Routines are cooperative: they loop, suspend at [Ticker.Wait] (or any
// context-aware await of their own), and resume to perform bounded work.
// Each resumption must be fast relative to the tick period so it does not
// starve the render scheduler; long work belongs on its own goroutine with
// the result dispatched back to the UI goroutine.
package ticker

import (
	"context"
	"sync"
	"time"
)

// State describes a ticker's position in its lifecycle.
// The only transitions are Starting → Running, Running ⇄ Paused, and any
// state → Canceled. Canceled is terminal: a node re-created by a tree diff
// gets a brand-new ticker.
type State int32

const (
	// Starting means the task has been created but has not yet resumed.
	Starting State = iota
	// Running means the routine is executing or suspended at an await.
	Running
	// Paused means the routine is held at its next Wait until resumed.
	Paused
	// Canceled means the task has terminated. Terminal.
	Canceled
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Clock abstracts timer waits so tests can drive tickers deterministically.
type Clock interface {
	// After returns a channel that delivers the current time once d has
	// elapsed.
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the default Clock backed by the time package.
type SystemClock struct{}

// After implements Clock.
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Ticker is the handle a routine suspends on. It is created by the
// Scheduler and bound to one node for that node's lifetime.
type Ticker struct {
	clock Clock

	mu     sync.Mutex
	state  State
	paused bool
	resume chan struct{}
}

func newTicker(clock Clock) *Ticker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Ticker{clock: clock, state: Starting}
}

// Wait suspends the routine for d, then blocks while the ticker is paused.
// It returns ctx.Err() if the task is canceled during either phase, which
// the routine should return unchanged.
func (t *Ticker) Wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.clock.After(d):
	}
	return t.waitWhilePaused(ctx)
}

// Gate blocks while the ticker is paused without consuming time. Routines
// that suspend on their own awaits (message subscriptions, I/O) call Gate
// after resuming so switch semantics still apply to them.
func (t *Ticker) Gate(ctx context.Context) error {
	return t.waitWhilePaused(ctx)
}

func (t *Ticker) waitWhilePaused(ctx context.Context) error {
	for {
		t.mu.Lock()
		if !t.paused {
			t.mu.Unlock()
			return nil
		}
		resume := t.resume
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-resume:
		}
	}
}

// State returns the ticker's current lifecycle state.
func (t *Ticker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Ticker) setState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Canceled {
		return
	}
	// A pause landing between Start and the task's first instruction
	// wins; unpause restores Running.
	if s == Running && t.paused {
		return
	}
	t.state = s
}

func (t *Ticker) pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused || t.state == Canceled {
		return
	}
	t.paused = true
	t.resume = make(chan struct{})
	t.state = Paused
}

func (t *Ticker) unpause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.paused || t.state == Canceled {
		return
	}
	t.paused = false
	close(t.resume)
	t.resume = nil
	t.state = Running
}
