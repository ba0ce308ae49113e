package frost

import (
	"context"
	stderrors "errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/render"
	"github.com/go-frost/frost/pkg/ticker"
)

var errNilRoot = stderrors.New("world has no root widget")

var (
	activeMu  sync.RWMutex
	activeBus *bus.Bus
)

// SetActiveBus routes Send to b and returns a restore function. Run calls
// this on startup; the test harness uses it to capture Send in tests.
func SetActiveBus(b *bus.Bus) (restore func()) {
	activeMu.Lock()
	previous := activeBus
	activeBus = b
	activeMu.Unlock()
	return func() {
		activeMu.Lock()
		activeBus = previous
		activeMu.Unlock()
	}
}

// Send publishes msg on the running world's message bus. Safe to call
// from any goroutine; a no-op when no world is running.
func Send(msg any) {
	activeMu.RLock()
	b := activeBus
	activeMu.RUnlock()
	if b != nil {
		b.Send(msg)
	}
}

// Option configures a Run call.
type Option func(*options)

type options struct {
	backend  render.Backend
	registry *bus.Registry
	clock    ticker.Clock
}

// WithBackend sets the render backend. The default is a Recorder, which
// keeps frames in memory; real programs pass a terminal backend.
func WithBackend(backend render.Backend) Option {
	return func(o *options) { o.backend = backend }
}

// WithRegistry sets the handler registry. The default is the package
// registry that bus.Register populates.
func WithRegistry(registry *bus.Registry) Option {
	return func(o *options) { o.registry = registry }
}

// WithClock sets the clock tickers run against. Tests pass a fake clock.
func WithClock(clock ticker.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// Run mounts the world and drives frames until ctx is cancelled or the
// initial mount fails. On return the tree is unmounted, every ticker is
// cancelled and the message bus is closed.
//
// Run blocks; the builder's widgets are built and rebuilt on a single
// goroutine owned by Run, so widget code never needs its own locking.
func Run(ctx context.Context, world World, opts ...Option) error {
	o := options{
		registry: bus.DefaultRegistry(),
		clock:    ticker.SystemClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = render.NewRecorder()
	}

	scheduler := ticker.NewSchedulerWithClock(o.clock)
	r := newRunner(world, o.backend, o.registry, scheduler)

	dispatch.Register(r.dispatch)
	r.bus.Start(r.dispatch)
	restore := SetActiveBus(r.bus)
	defer restore()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return r.loop(ctx)
	})
	err := group.Wait()

	// Teardown order matters: the tree is already unmounted by the loop,
	// which cancelled every ticker through OnUnmount. Shutdown then waits
	// for ticker goroutines to exit before the bus stops accepting sends.
	scheduler.Shutdown()
	r.bus.Close()
	return err
}

// Launch is Run with a bare root widget and the default configuration,
// mirroring the smallest possible program:
//
//	frost.Launch(ctx, app.Board())
func Launch(ctx context.Context, root core.Widget, opts ...Option) error {
	return Run(ctx, World{Root: root, Config: DefaultWorldConfig()}, opts...)
}
