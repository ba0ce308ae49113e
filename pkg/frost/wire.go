package frost

import (
	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/ticker"
)

// Wire connects a build owner's lifecycle notifications to the bus and
// ticker scheduler: mounting a stateful node attaches its state as a
// message target and starts its ticker routine if it declares one;
// unmounting detaches and cancels; switching a node off stage pauses its
// ticker, switching back resumes it.
//
// The runtime and the test harness share this wiring so both environments
// give nodes identical lifecycles.
func Wire(owner *core.BuildOwner, b *bus.Bus, registry *bus.Registry, scheduler *ticker.Scheduler) {
	owner.OnMount = func(node *core.StatefulNode) {
		state := node.State()
		if registry.HasHandler(state) {
			b.Attach(state)
		}
		if routine, ok := state.(ticker.Routine); ok {
			scheduler.Start(state, routine)
		}
	}
	owner.OnUnmount = func(node *core.StatefulNode) {
		state := node.State()
		b.Detach(state)
		scheduler.Cancel(state)
	}
	owner.OnStageChange = func(node *core.StatefulNode, offstage bool) {
		if offstage {
			scheduler.Pause(node.State())
		} else {
			scheduler.Resume(node.State())
		}
	}
}
