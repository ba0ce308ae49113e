// Package bus provides the typed publish/subscribe message channel that
// decouples element instances from each other.
//
// Messages are immutable values addressed by type, not by target: Send
// enqueues for asynchronous delivery and returns immediately, and every
// live element whose state type has a registered handler for the message's
// type receives it. Publishers need not know their subscribers exist.
//
// One Bus instance is owned by the running world and handed to tasks and
// handlers by reference; there is no ambient global bus.
package bus

import (
	"context"
	"reflect"
	"sync"

	"github.com/go-frost/frost/pkg/errors"
)

// Context accompanies each delivery. Handlers use it to publish follow-up
// messages without holding their own bus reference.
type Context struct {
	bus *Bus
}

// Send publishes a follow-up message on the same bus. Like Bus.Send it is
// fire-and-forget.
func (c *Context) Send(msg any) {
	c.bus.Send(msg)
}

// Bus is the world's message channel. Send may be called from any
// goroutine; handler delivery happens on the UI goroutine through the
// dispatcher installed at Start.
type Bus struct {
	registry *Registry

	mu        sync.Mutex
	queue     []any
	wake      chan struct{}
	started   bool
	closed    bool
	dispatch  func(func())
	instances map[reflect.Type][]any
	subs      map[reflect.Type][]*subscriber
	done      chan struct{}
}

type subscriber struct {
	msgType reflect.Type
	ch      chan any
}

// New creates a bus delivering to handlers from the given registry.
// Pass nil to use the default registry.
func New(registry *Registry) *Bus {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Bus{
		registry:  registry,
		wake:      make(chan struct{}, 1),
		instances: make(map[reflect.Type][]any),
		subs:      make(map[reflect.Type][]*subscriber),
		done:      make(chan struct{}),
	}
}

// Start seals the registry and begins pumping messages. dispatch schedules
// a closure onto the UI goroutine; passing nil delivers synchronously on
// the pump goroutine, which is only appropriate in tests that provide
// their own serialization.
func (b *Bus) Start(dispatch func(func())) {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.dispatch = dispatch
	b.mu.Unlock()

	b.registry.seal()
	go b.pump()
}

// Send enqueues a message for asynchronous delivery and returns without
// waiting for any handler to run. Messages sent from one goroutine are
// delivered to a given instance in send order. Messages still queued when
// the bus closes are dropped silently.
func (b *Bus) Send(msg any) {
	if msg == nil {
		return
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, msg)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Attach registers a live state instance as a delivery target. Called by
// the runtime when the owning node mounts.
func (b *Bus) Attach(state any) {
	if state == nil {
		return
	}
	t := reflect.TypeOf(state)
	b.mu.Lock()
	b.instances[t] = append(b.instances[t], state)
	b.mu.Unlock()
}

// Detach removes a state instance. Called by the runtime when the owning
// node unmounts; messages delivered afterwards no longer reach it.
func (b *Bus) Detach(state any) {
	if state == nil {
		return
	}
	t := reflect.TypeOf(state)
	b.mu.Lock()
	live := b.instances[t]
	for i, candidate := range live {
		if candidate == state {
			b.instances[t] = append(live[:i:i], live[i+1:]...)
			break
		}
	}
	if len(b.instances[t]) == 0 {
		delete(b.instances, t)
	}
	b.mu.Unlock()
}

// Close stops the pump and drops any undelivered messages. Subscriptions
// are canceled.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.queue = nil
	subs := b.subs
	b.subs = make(map[reflect.Type][]*subscriber)
	started := b.started
	b.mu.Unlock()

	for _, list := range subs {
		for _, s := range list {
			close(s.ch)
		}
	}
	select {
	case b.wake <- struct{}{}:
	default:
	}
	if started {
		<-b.done
	}
}

func (b *Bus) pump() {
	defer close(b.done)
	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return
		}
		if len(b.queue) == 0 {
			b.mu.Unlock()
			<-b.wake
			continue
		}
		msg := b.queue[0]
		b.queue = b.queue[1:]
		dispatch := b.dispatch
		b.mu.Unlock()

		b.fanOut(msg)
		if dispatch != nil {
			dispatch(func() { b.deliver(msg) })
		} else {
			b.deliver(msg)
		}
	}
}

// fanOut pushes the message to channel subscriptions. A subscriber whose
// buffer is full misses the message; subscriptions are a liveness signal
// for ticker routines, not a durable queue.
func (b *Bus) fanOut(msg any) {
	t := reflect.TypeOf(msg)
	b.mu.Lock()
	subs := append([]*subscriber(nil), b.subs[t]...)
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- msg:
		default:
		}
	}
}

// deliver runs on the UI goroutine. It snapshots the instances attached at
// delivery time, so a node unmounted between send and delivery receives
// nothing, and invokes each matching handler at most once per instance.
// A failing handler is reported and does not stop the remaining
// deliveries.
func (b *Bus) deliver(msg any) {
	handlers := b.registry.handlersFor(reflect.TypeOf(msg))
	if len(handlers) == 0 {
		return
	}
	ctx := &Context{bus: b}
	for _, h := range handlers {
		b.mu.Lock()
		targets := append([]any(nil), b.instances[h.stateType]...)
		b.mu.Unlock()

		for _, state := range targets {
			b.invoke(h, state, msg, ctx)
		}
	}
}

func (b *Bus) invoke(h entry, state any, msg any, ctx *Context) {
	defer errors.Recover("bus.Bus.deliver")
	if err := h.invoke(state, msg, ctx); err != nil {
		errors.Report(&errors.FrostError{
			Op:     "bus.Bus.deliver",
			Kind:   errors.KindHandler,
			Err:    err,
			Widget: h.stateType.String(),
		})
	}
}

// Subscription yields messages of one type to a ticker routine or other
// background task.
type Subscription[M any] struct {
	bus *Bus
	sub *subscriber
}

// Subscribe returns a subscription for messages of type M. The buffer
// holds a bounded backlog; messages beyond it are dropped for this
// subscriber.
func Subscribe[M any](b *Bus) *Subscription[M] {
	s := &subscriber{
		msgType: reflect.TypeFor[M](),
		ch:      make(chan any, 16),
	}
	b.mu.Lock()
	if b.closed {
		close(s.ch)
	} else {
		b.subs[s.msgType] = append(b.subs[s.msgType], s)
	}
	b.mu.Unlock()
	return &Subscription[M]{bus: b, sub: s}
}

// Recv blocks until the next message of type M arrives, the context is
// canceled, or the bus closes.
func (s *Subscription[M]) Recv(ctx context.Context) (M, error) {
	var zero M
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case msg, ok := <-s.sub.ch:
		if !ok {
			return zero, context.Canceled
		}
		return msg.(M), nil
	}
}

// Cancel removes the subscription.
func (s *Subscription[M]) Cancel() {
	b := s.bus
	b.mu.Lock()
	list := b.subs[s.sub.msgType]
	for i, candidate := range list {
		if candidate == s.sub {
			b.subs[s.sub.msgType] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}
