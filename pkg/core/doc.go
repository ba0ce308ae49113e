// Package core provides the widget and node framework interfaces and lifecycle.
//
// This package defines the foundational types for building reactive user
// interfaces: Widget, Node, State, and BuildContext. It follows a
// declarative UI model where widgets describe what the UI should look like,
// and the framework efficiently updates the live node tree to match.
//
// # Core Types
//
// Widget is an immutable description of part of the UI. Widgets are
// lightweight configuration values that can be created frequently without
// performance concerns.
//
// Node is the instantiation of a Widget at a particular position in the
// tree. Nodes manage lifecycle and identity: a node whose new description
// matches its old one by type and key is reused, keeping its state cells
// and ticker alive across rebuilds.
//
// # Stateful Widgets
//
// For widgets that need mutable state, embed StateBase in your state
// struct:
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
//
// # State Cells
//
// Cell provides automatic rebuild scheduling:
//
//	s.count.Set(s.count.Get() + 1) // marks the node dirty; renders later
//
// A mutation never paints synchronously. The render scheduler coalesces
// all mutations recorded between two frames into a single rebuild and one
// paint pass, so the display is eventually consistent with the latest
// committed value of every cell.
//
// Observable provides thread-safe reactive values shared between nodes;
// UseObservable subscribes a state to one with automatic cleanup.
//
// # Constructor Conventions
//
// Long-lived mutable objects (cells, observables, buses) use NewX()
// constructors returning pointers. Widgets are immutable configuration and
// use struct literals.
package core
