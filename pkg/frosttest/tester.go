package frosttest

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/frost"
	"github.com/go-frost/frost/pkg/render"
	"github.com/go-frost/frost/pkg/ticker"
)

const (
	// DefaultTestWidth is the default viewport width for the test surface.
	DefaultTestWidth = 80
	// DefaultTestHeight is the default viewport height for the test surface.
	DefaultTestHeight = 24
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: runtime did not settle")

// Tester drives a world without a real frame loop or terminal. It shares
// the runtime's wiring, so mounting a widget attaches handlers and starts
// tickers exactly as a running world would, but frames are pumped
// explicitly and time comes from a fake clock.
type Tester struct {
	owner     *core.BuildOwner
	root      core.Node
	clock     *FakeClock
	bus       *bus.Bus
	scheduler *ticker.Scheduler
	recorder  *render.Recorder
	viewport  render.Viewport

	mu         sync.Mutex
	dispatches []func()
	restoreBus func()
}

// NewTester creates a tester using the default handler registry and
// auto-cleans up via t.Cleanup.
func NewTester(t *testing.T) *Tester {
	return NewTesterWithRegistry(t, bus.DefaultRegistry())
}

// NewTesterWithRegistry creates a tester against an explicit registry.
// Tests that build their own registry use this to stay isolated from
// package-level registrations.
func NewTesterWithRegistry(t *testing.T, registry *bus.Registry) *Tester {
	clock := NewFakeClock()
	tester := &Tester{
		owner:     core.NewBuildOwner(),
		clock:     clock,
		bus:       bus.New(registry),
		scheduler: ticker.NewSchedulerWithClock(clock),
		recorder:  render.NewRecorder(),
		viewport:  render.Viewport{Width: DefaultTestWidth, Height: DefaultTestHeight},
	}
	frost.Wire(tester.owner, tester.bus, registry, tester.scheduler)
	tester.bus.Start(tester.Dispatch)
	dispatch.Register(tester.Dispatch)
	tester.restoreBus = frost.SetActiveBus(tester.bus)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and stops the scheduler and bus. Tests built
// with NewTester get this automatically.
func (t *Tester) Cleanup() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
	t.scheduler.Shutdown()
	t.bus.Close()
	dispatch.Register(nil)
	if t.restoreBus != nil {
		t.restoreBus()
	}
}

// Clock returns the fake clock for advancing time.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// Bus returns the tester's message bus for publishing test messages.
func (t *Tester) Bus() *bus.Bus {
	return t.bus
}

// Scheduler returns the ticker scheduler for asserting ticker states.
func (t *Tester) Scheduler() *ticker.Scheduler {
	return t.scheduler
}

// Recorder returns the backend recording paint passes.
func (t *Tester) Recorder() *render.Recorder {
	return t.recorder
}

// SetViewport sets the surface size. Must be called before PumpWidget.
func (t *Tester) SetViewport(viewport render.Viewport) {
	t.viewport = viewport
}

// PumpWidget mounts (or remounts) a widget and runs one frame. Duplicate
// keys in the initial description fail fast before anything mounts.
func (t *Tester) PumpWidget(widget core.Widget) error {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
	if err := core.ValidateTree(widget); err != nil {
		return err
	}
	t.root = core.Inflate(widget, t.owner)
	t.root.Mount(nil, nil)
	return t.Pump()
}

// Pump runs a single frame: drains dispatches, flushes builds, then
// paints dirty subtrees into the recorder.
func (t *Tester) Pump() error {
	t.mu.Lock()
	dispatches := t.dispatches
	t.dispatches = nil
	t.mu.Unlock()
	for _, fn := range dispatches {
		fn()
	}

	t.owner.FlushBuild()

	pipeline := t.owner.Pipeline()
	if pipeline.NeedsPaint() {
		t.recorder.BeginFrame(t.viewport)
		pipeline.FlushPaint(t.recorder)
		if err := t.recorder.EndFrame(); err != nil {
			return err
		}
	}
	return nil
}

// PumpAndSettle runs frames until no builds or dispatches are pending.
// Parked tickers do not count as pending work; use Advance to fire them.
// The timeout is wall-clock time.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrSettleTimeout
		}
		time.Sleep(time.Millisecond)
	}
}

// Advance moves the fake clock forward, waits for any released ticker to
// queue its dispatch, then pumps a frame.
func (t *Tester) Advance(d time.Duration) error {
	released := t.clock.Waiters() > 0
	t.clock.Advance(d)
	if released {
		t.waitForDispatch(200 * time.Millisecond)
	}
	return t.Pump()
}

// waitForDispatch blocks until at least one dispatch is queued or the
// wall-clock timeout passes. Tickers run on their own goroutines, so the
// tester has to yield real time between releasing a timer and draining
// its effect.
func (t *Tester) waitForDispatch(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		t.mu.Lock()
		pending := len(t.dispatches)
		t.mu.Unlock()
		if pending > 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (t *Tester) needsWork() bool {
	t.mu.Lock()
	pending := len(t.dispatches) > 0
	t.mu.Unlock()
	return pending || t.owner.NeedsWork()
}

// Dispatch queues a callback for the next frame, mirroring the runtime's
// UI-goroutine dispatch. Safe to call from any goroutine.
func (t *Tester) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.dispatches = append(t.dispatches, fn)
	t.mu.Unlock()
}

// Root returns the root node of the mounted tree.
func (t *Tester) Root() core.Node {
	return t.root
}

// Find evaluates a finder against the current tree.
func (t *Tester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{nodes: finder.Evaluate(t.root), finder: finder}
}

// Tap clicks the first button the finder matches and pumps a frame.
func (t *Tester) Tap(finder Finder) error {
	node := t.Find(finder).First()
	button, ok := node.Widget().(elements.Button)
	if !ok {
		return errors.New("Tap target is not a button: " + finder.Description())
	}
	button.Click()
	return t.Pump()
}

// EnterText sets the value of the first text input the finder matches and
// pumps a frame.
func (t *Tester) EnterText(finder Finder, text string) error {
	node := t.Find(finder).First()
	stateful, ok := node.(*core.StatefulNode)
	if !ok {
		return errors.New("EnterText target is not stateful: " + finder.Description())
	}
	field, ok := stateful.State().(elements.Field)
	if !ok {
		return errors.New("EnterText target is not a field: " + finder.Description())
	}
	field.SetFieldValue(text)
	return t.Pump()
}
