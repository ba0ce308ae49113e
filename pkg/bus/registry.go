package bus

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-frost/frost/pkg/errors"
)

// Handler is the logic bound to one (message type, state type) pair. It
// runs on the UI goroutine with the live state instance, the message, and
// a delivery context. A non-nil error is reported as a handler failure and
// does not affect delivery to other instances.
type Handler[M any, S any] func(state *S, msg M, ctx *Context) error

// Registry is the table mapping (message type, state type) to handlers.
// It is populated by Register calls during program init and sealed when
// the world starts; after sealing it is read-only, so delivery needs no
// locking.
type Registry struct {
	mu      sync.Mutex
	sealed  bool
	entries []entry
}

type entry struct {
	msgType   reflect.Type
	stateType reflect.Type
	invoke    func(state any, msg any, ctx *Context) error
}

var defaultRegistry = &Registry{}

// DefaultRegistry returns the process-wide registry that package-level
// Register calls populate.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register binds messages of type M to a handler on states of type S in
// the default registry. Call it from package init so the binding exists
// before the world starts:
//
//	var _ = bus.Register(func(s *counterState, msg ButtonClicked, ctx *bus.Context) error {
//	    s.Count.Update(func(n int) int { return n + 1 })
//	    return nil
//	})
//
// The returned token has no behavior; it exists so registration can be a
// package-level var declaration.
func Register[M any, S any](fn Handler[M, S]) Registration {
	return RegisterOn(defaultRegistry, fn)
}

// Registration is the opaque token returned by Register.
type Registration struct{}

// RegisterOn is Register against an explicit registry, used by tests that
// need isolation from the process-wide table.
func RegisterOn[M any, S any](r *Registry, fn Handler[M, S]) Registration {
	if fn == nil {
		return Registration{}
	}
	e := entry{
		msgType:   reflect.TypeFor[M](),
		stateType: reflect.TypeFor[*S](),
		invoke: func(state any, msg any, ctx *Context) error {
			return fn(state.(*S), msg.(M), ctx)
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		errors.Report(&errors.FrostError{
			Op:   "bus.Register",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("handler for %s on %s registered after the world started; ignored", e.msgType, e.stateType),
		})
		return Registration{}
	}
	r.entries = append(r.entries, e)
	return Registration{}
}

func (r *Registry) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// handlersFor returns the entries matching a message type. Only called
// after sealing, so the slice is stable.
func (r *Registry) handlersFor(msgType reflect.Type) []entry {
	matched := make([]entry, 0, 2)
	for _, e := range r.entries {
		if e.msgType == msgType {
			matched = append(matched, e)
		}
	}
	return matched
}

// HasHandler reports whether any handler is registered for the state type
// of the given instance.
func (r *Registry) HasHandler(state any) bool {
	stateType := reflect.TypeOf(state)
	for _, e := range r.entries {
		if e.stateType == stateType {
			return true
		}
	}
	return false
}
