package core

import "sync"

// Cell holds one reactively-observed value owned by a stateful node.
// Mutating the cell marks the owning node dirty; it never renders
// synchronously. The cell is created in InitState and dies with the node,
// so a node reused across rebuilds keeps its cell values.
//
// Cell is NOT thread-safe. It must only be accessed from the UI goroutine.
// To update from a background goroutine, use frost.Dispatch:
//
//	go func() {
//	    result := doExpensiveWork()
//	    frost.Dispatch(func() {
//	        s.data.Set(result) // Safe - runs on the UI goroutine
//	    })
//	}()
//
// Example:
//
//	type counterState struct {
//	    core.StateBase
//	    count *core.Cell[int]
//	}
//
//	func (s *counterState) InitState() {
//	    s.count = core.NewCell(s, 0)
//	}
//
//	func (s *counterState) Build(ctx core.BuildContext) core.Widget {
//	    return elements.Text{Content: fmt.Sprintf("Count: %d", s.count.Get())}
//	}
type Cell[T any] struct {
	base  *StateBase
	value T
}

// NewCell creates a new state cell bound to the given state.
// Changes to the value automatically schedule a rebuild.
func NewCell[T any](s stateBase, initial T) *Cell[T] {
	return &Cell[T]{
		base:  s.state(),
		value: initial,
	}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set replaces the value and schedules a rebuild.
func (c *Cell[T]) Set(value T) {
	c.value = value
	c.base.SetState(nil)
}

// Update applies a transformation to the current value and schedules a
// rebuild.
func (c *Cell[T]) Update(transform func(T) T) {
	c.value = transform(c.value)
	c.base.SetState(nil)
}

// Observable holds a value and notifies listeners when it changes.
// Unlike Cell it is safe for concurrent use, which makes it the right
// holder for values produced off the UI goroutine and consumed by many
// nodes.
type Observable[T any] struct {
	mu        sync.Mutex
	value     T
	listeners map[int]func(T)
	nextID    int
}

// NewObservable creates an observable with an initial value.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set replaces the value and notifies all listeners.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	listeners := make([]func(T), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// AddListener subscribes to value changes. Returns an unsubscribe function.
func (o *Observable[T]) AddListener(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.listeners == nil {
		o.listeners = make(map[int]func(T))
	}
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

// UseObservable subscribes a state to an observable and triggers rebuilds
// when it changes. Call this once in InitState(), not in Build(). The
// subscription is automatically cleaned up when the state is disposed.
//
// Example:
//
//	func (s *myState) InitState() {
//	    core.UseObservable(s, sharedCounter)
//	}
func UseObservable[T any](s stateBase, obs *Observable[T]) {
	base := s.state()
	unsub := obs.AddListener(func(T) {
		base.SetState(nil)
	})
	base.OnDispose(unsub)
}

// Disposable is anything that releases resources with Dispose.
type Disposable interface {
	Dispose()
}

// UseController creates a controller and registers it for automatic
// disposal when the state is disposed.
func UseController[C Disposable](s stateBase, create func() C) C {
	base := s.state()
	controller := create()
	base.OnDispose(func() {
		controller.Dispose()
	})
	return controller
}
