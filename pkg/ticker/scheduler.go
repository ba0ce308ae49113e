package ticker

import (
	"context"
	stderrors "errors"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/go-frost/frost/pkg/errors"
)

// Routine is implemented by states that declare a background ticker. The
// scheduler runs Tick on its own goroutine for the lifetime of the owning
// node. Tick should loop, suspending at t.Wait (or other context-aware
// awaits followed by t.Gate), and return ctx.Err() once the context is
// canceled. Any other non-nil return is a ticker failure: it is reported,
// the task terminates, and the element freezes at its last committed
// state.
type Routine interface {
	Tick(ctx context.Context, t *Ticker) error
}

// Scheduler owns at most one running task per node that opted into
// background work.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	entries map[any]*entry
	wg      sync.WaitGroup
	closed  bool
}

type entry struct {
	id     string
	name   string
	ticker *Ticker
	cancel context.CancelFunc
}

// Info describes one scheduled ticker for diagnostics.
type Info struct {
	ID    string
	Name  string
	State State
}

// NewScheduler creates a scheduler using the system clock.
func NewScheduler() *Scheduler {
	return NewSchedulerWithClock(SystemClock{})
}

// NewSchedulerWithClock creates a scheduler whose tickers wait on the given
// clock. Tests pass a fake clock to drive ticks deterministically.
func NewSchedulerWithClock(clock Clock) *Scheduler {
	return &Scheduler{
		clock:   clock,
		entries: make(map[any]*entry),
	}
}

// Start spawns the task for owner running routine. Starting an owner that
// already has a live task is a no-op: a node carries at most one ticker.
func (s *Scheduler) Start(owner any, routine Routine) {
	if owner == nil || routine == nil {
		return
	}

	s.mu.Lock()
	if s.closed || s.entries[owner] != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{
		id:     uuid.NewString(),
		name:   reflect.TypeOf(routine).String(),
		ticker: newTicker(s.clock),
		cancel: cancel,
	}
	s.entries[owner] = e
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, owner, e, routine)
}

func (s *Scheduler) run(ctx context.Context, owner any, e *entry, routine Routine) {
	defer s.wg.Done()
	defer func() {
		e.ticker.mu.Lock()
		e.ticker.state = Canceled
		e.ticker.mu.Unlock()

		s.mu.Lock()
		if s.entries[owner] == e {
			delete(s.entries, owner)
		}
		s.mu.Unlock()
	}()
	defer errors.Recover("ticker.Scheduler.run")

	e.ticker.setState(Running)
	err := routine.Tick(ctx, e.ticker)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		errors.Report(&errors.FrostError{
			Op:     "ticker.Scheduler.run",
			Kind:   errors.KindTicker,
			Err:    err,
			Widget: e.name,
		})
	}
}

// Cancel terminates owner's task. The context is canceled synchronously;
// the routine observes it at its next suspension point. Cancel is called
// by the runtime on the UI goroutine before any new node occupies the
// slot, and the state's dispose guard drops any mutation the routine
// attempts afterwards.
func (s *Scheduler) Cancel(owner any) {
	s.mu.Lock()
	e := s.entries[owner]
	delete(s.entries, owner)
	s.mu.Unlock()

	if e != nil {
		e.cancel()
	}
}

// Pause holds owner's routine at its next Wait until Resume. State cells
// keep their values while paused.
func (s *Scheduler) Pause(owner any) {
	s.mu.Lock()
	e := s.entries[owner]
	s.mu.Unlock()
	if e != nil {
		e.ticker.pause()
	}
}

// Resume releases a paused routine.
func (s *Scheduler) Resume(owner any) {
	s.mu.Lock()
	e := s.entries[owner]
	s.mu.Unlock()
	if e != nil {
		e.ticker.unpause()
	}
}

// TickerState returns the lifecycle state of owner's ticker. Owners
// without a live task report Canceled.
func (s *Scheduler) TickerState(owner any) State {
	s.mu.Lock()
	e := s.entries[owner]
	s.mu.Unlock()
	if e == nil {
		return Canceled
	}
	return e.ticker.State()
}

// Active returns the number of live tasks.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Snapshot returns diagnostic info for every live task.
func (s *Scheduler) Snapshot() []Info {
	s.mu.Lock()
	infos := make([]Info, 0, len(s.entries))
	for _, e := range s.entries {
		infos = append(infos, Info{ID: e.id, Name: e.name, State: e.ticker.State()})
	}
	s.mu.Unlock()
	return infos
}

// Shutdown cancels every task and waits for the goroutines to exit.
// The scheduler accepts no new work afterwards.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.entries = make(map[any]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		e.cancel()
	}
	s.wg.Wait()
}
