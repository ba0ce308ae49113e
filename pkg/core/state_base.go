package core

import "sync"

// stateBase is satisfied by any struct that embeds StateBase.
// Cells and hooks accept stateBase so callers can pass s directly.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase provides common functionality for stateful widget states.
// Embed this struct in your state to eliminate boilerplate.
//
// Example:
//
//	type myState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *myState) InitState() {
//	    // No need to implement SetNode, SetState, Dispose, etc.
//	}
type StateBase struct {
	node      *StatefulNode
	disposers []func()
	disposed  bool
	mu        sync.Mutex
}

// setNode stores the node reference for triggering rebuilds.
// This method is called automatically by the framework.
func (s *StateBase) setNode(node *StatefulNode) {
	s.node = node
}

// SetNode stores the node reference for triggering rebuilds.
// This method is called automatically by the framework.
func (s *StateBase) SetNode(node *StatefulNode) {
	s.node = node
}

// Node returns the node associated with this state.
// Returns nil if the state has been disposed or not yet mounted.
func (s *StateBase) Node() *StatefulNode {
	return s.node
}

// SetState executes the given function and schedules a rebuild.
// Safe to call even after disposal (becomes a no-op), which is what makes
// ticker cancellation airtight: a canceled routine's late mutation attempt
// lands here and is dropped.
//
// SetState is NOT thread-safe. It must only be called from the UI
// goroutine. To update state from a background goroutine, use
// frost.Dispatch.
func (s *StateBase) SetState(fn func()) {
	if s.disposed {
		return
	}
	if fn != nil {
		fn()
	}
	if s.node != nil {
		s.node.MarkNeedsBuild()
	}
}

// OnDispose registers a cleanup function to be called when the state is
// disposed. Returns an unregister function that can be called to remove
// the disposer. The cleanup function will only be called once.
func (s *StateBase) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		// Already disposed, run cleanup immediately
		cleanup()
		return func() {}
	}

	index := len(s.disposers)
	s.disposers = append(s.disposers, cleanup)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.disposers) {
			s.disposers[index] = nil
		}
	}
}

// RunDisposers executes all registered disposers in reverse order.
// This is called automatically by Dispose().
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true

	// Run disposers in reverse order (LIFO)
	for i := len(s.disposers) - 1; i >= 0; i-- {
		if s.disposers[i] != nil {
			s.disposers[i]()
		}
	}
	s.disposers = nil
}

// Dispose cleans up resources. Override this method if you need custom
// cleanup, but always call s.RunDisposers() or s.StateBase.Dispose() in
// your override.
func (s *StateBase) Dispose() {
	s.RunDisposers()
}

// InitState is a no-op default implementation.
// Override this method to initialize your state.
func (s *StateBase) InitState() {}

// Build is a no-op default implementation that returns nil.
// Override this method to build your widget tree.
func (s *StateBase) Build(ctx BuildContext) Widget {
	return nil
}

// DidUpdateWidget is a no-op default implementation.
// Override this method to respond to widget configuration changes.
func (s *StateBase) DidUpdateWidget(oldWidget StatefulWidget) {}

// IsDisposed returns true if this state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
