package frost

import (
	"context"
	"sync"
	"time"

	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/errors"
	"github.com/go-frost/frost/pkg/render"
	"github.com/go-frost/frost/pkg/ticker"
)

// runner owns the live tree and the UI goroutine. All tree mutation
// happens on the loop goroutine; other goroutines reach it through
// Dispatch.
type runner struct {
	owner     *core.BuildOwner
	root      core.Node
	backend   render.Backend
	bus       *bus.Bus
	scheduler *ticker.Scheduler
	world     World

	dispatchMu    sync.Mutex
	dispatchQueue []func()

	frameRequested chan struct{}
}

func newRunner(world World, backend render.Backend, registry *bus.Registry, scheduler *ticker.Scheduler) *runner {
	r := &runner{
		owner:          core.NewBuildOwner(),
		backend:        backend,
		bus:            bus.New(registry),
		scheduler:      scheduler,
		world:          world,
		frameRequested: make(chan struct{}, 1),
	}
	r.owner.OnNeedsFrame = r.requestFrame
	Wire(r.owner, r.bus, registry, scheduler)
	return r
}

// dispatch schedules a callback onto the UI goroutine during the next
// frame. Safe to call from any goroutine. Callbacks run in FIFO order,
// and all mutations performed by one callback are committed before the
// frame's render pass observes any of them.
func (r *runner) dispatch(callback func()) {
	if callback == nil {
		return
	}
	r.dispatchMu.Lock()
	r.dispatchQueue = append(r.dispatchQueue, callback)
	r.dispatchMu.Unlock()
	r.requestFrame()
}

func (r *runner) drainDispatchQueue() []func() {
	r.dispatchMu.Lock()
	callbacks := append([]func(){}, r.dispatchQueue...)
	r.dispatchQueue = nil
	r.dispatchMu.Unlock()
	return callbacks
}

func (r *runner) requestFrame() {
	select {
	case r.frameRequested <- struct{}{}:
	default:
	}
}

func (r *runner) needsFrame() bool {
	r.dispatchMu.Lock()
	pending := len(r.dispatchQueue) > 0
	r.dispatchMu.Unlock()
	return pending || r.owner.NeedsWork()
}

// mountRoot validates and mounts the world's root widget. Construction
// errors (duplicate keys, nil root) are fatal: no tree is committed.
func (r *runner) mountRoot() error {
	if r.world.Root == nil {
		return &errors.FrostError{
			Op:   "frost.runner.mountRoot",
			Kind: errors.KindBuild,
			Err:  errNilRoot,
		}
	}
	if err := core.ValidateTree(r.world.Root); err != nil {
		return err
	}
	r.root = core.Inflate(r.world.Root, r.owner)
	r.root.Mount(nil, nil)
	r.requestFrame()
	return nil
}

// loop is the UI goroutine. It parks until a frame is requested, then
// steps one frame: drain dispatches, flush builds, paint dirty subtrees.
// The loop enforces the coalescing policy: at most one render pass per
// frame interval, covering every mutation recorded since the last pass.
func (r *runner) loop(ctx context.Context) error {
	if err := r.mountRoot(); err != nil {
		r.teardown()
		return err
	}
	interval := r.world.Config.FrameInterval
	var lastFrame time.Time

	for {
		select {
		case <-ctx.Done():
			r.teardown()
			return nil
		case <-r.frameRequested:
		}

		if interval > 0 {
			if elapsed := time.Since(lastFrame); elapsed < interval {
				select {
				case <-ctx.Done():
					r.teardown()
					return nil
				case <-time.After(interval - elapsed):
				}
			}
		}
		lastFrame = time.Now()
		r.stepFrame()

		if r.needsFrame() {
			r.requestFrame()
		}
	}
}

// stepFrame runs one frame on the loop goroutine. The render pass is
// synchronous once started: it observes the latest committed value of
// every cell and nothing mid-mutation.
func (r *runner) stepFrame() {
	defer errors.Recover("frost.runner.stepFrame")

	for _, callback := range r.drainDispatchQueue() {
		r.runCallback(callback)
	}
	r.owner.FlushBuild()

	if !r.owner.Pipeline().NeedsPaint() {
		return
	}
	r.backend.BeginFrame(r.world.Config.Viewport)
	r.owner.Pipeline().FlushPaint(r.backend)
	if err := r.backend.EndFrame(); err != nil {
		errors.Report(&errors.FrostError{
			Op:   "frost.runner.stepFrame",
			Kind: errors.KindRender,
			Err:  err,
		})
	}
}

func (r *runner) runCallback(callback func()) {
	defer errors.Recover("frost.runner.dispatch")
	callback()
}

func (r *runner) teardown() {
	if r.root != nil {
		r.root.Unmount()
		r.root = nil
	}
	dispatch.Register(nil)
}

// Dispatch schedules a callback to run on the UI goroutine during the
// next frame and is safe to call from any goroutine. It is a no-op when
// no world is running.
func Dispatch(callback func()) {
	dispatch.Dispatch(callback)
}
