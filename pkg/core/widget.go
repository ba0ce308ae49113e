package core

// Widget is an immutable description of part of the UI. Widgets are cheap
// configuration values; the framework instantiates a Node for each widget
// position in the tree and keeps the node alive as long as successive
// descriptions at that position remain compatible.
type Widget interface {
	// CreateNode returns a new node hosting this widget.
	CreateNode() Node

	// Key is the identity key used to match this widget against the node
	// occupying the same position in the previous tree. A nil key means
	// identity is purely positional. Widgets embed StatelessBase,
	// StatefulBase, or HostBase for the nil default and override Key to
	// opt into explicit identity.
	Key() any
}

// StatelessWidget composes other widgets and holds no mutable state.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget owns a State that survives rebuilds of the widget
// description at its tree position.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// HostWidget is a widget that owns a drawable surface. Host widgets form
// the subtree boundaries the render scheduler repaints; their ordered
// children are render/layout order.
type HostWidget interface {
	Widget
	ChildWidgets() []Widget
}

// ChildSelector is implemented by host widgets that show exactly one of
// their children at a time (switch semantics). Children other than the
// active one stay mounted with their state cells intact and their tickers
// paused.
type ChildSelector interface {
	ActiveChildIndex() int
}

// State is the mutable companion of a StatefulWidget.
type State interface {
	// InitState is called once after the state is attached to its node.
	InitState()
	// Build returns the widget subtree for the current state.
	Build(ctx BuildContext) Widget
	// SetState applies fn and schedules a rebuild of the owning node.
	SetState(fn func())
	// DidUpdateWidget is called when the node is reused for a new widget
	// description of the same type and key.
	DidUpdateWidget(oldWidget StatefulWidget)
	// Dispose releases resources. Called exactly once when the node is
	// removed from the tree.
	Dispose()
}

// BuildContext gives build methods access to the node's position in the
// tree without exposing the node's lifecycle.
type BuildContext interface {
	// FindAncestor walks up the tree and returns the first node matching
	// the predicate, or nil.
	FindAncestor(predicate func(Node) bool) Node
}

// Node is the instantiation of a Widget at a particular tree position.
// Nodes manage identity and lifecycle: state cells and tickers belong to
// the node, not the widget description.
type Node interface {
	BuildContext

	Widget() Widget
	Depth() int

	Mount(parent Node, slot any)
	Update(newWidget Widget)
	Unmount()

	MarkNeedsBuild()
	RebuildIfNeeded()

	// VisitChildren calls visitor for each live child in order. Returning
	// false stops the walk.
	VisitChildren(visitor func(Node) bool)
}

// StatelessBase provides default CreateNode and Key implementations for
// stateless widgets. Embed it in your widget struct to satisfy the Widget
// interface without boilerplate:
//
//	type Greeting struct {
//	    core.StatelessBase
//	    Name string
//	}
//
//	func (g Greeting) Build(ctx core.BuildContext) core.Widget {
//	    return elements.Text{Content: "Hello, " + g.Name}
//	}
type StatelessBase struct{}

// CreateNode returns a new StatelessNode.
func (StatelessBase) CreateNode() Node { return NewStatelessNode() }

// Key returns nil (positional identity).
func (StatelessBase) Key() any { return nil }

// StatefulBase provides default CreateNode and Key implementations for
// stateful widgets:
//
//	type Counter struct {
//	    core.StatefulBase
//	}
//
//	func (Counter) CreateState() core.State { return &counterState{} }
type StatefulBase struct{}

// CreateNode returns a new StatefulNode.
func (StatefulBase) CreateNode() Node { return NewStatefulNode() }

// Key returns nil (positional identity).
func (StatefulBase) Key() any { return nil }

// HostBase provides default CreateNode and Key implementations for host
// widgets. The embedding widget implements ChildWidgets.
type HostBase struct{}

// CreateNode returns a new HostNode.
func (HostBase) CreateNode() Node { return NewHostNode() }

// Key returns nil (positional identity).
func (HostBase) Key() any { return nil }
