package core

import (
	"reflect"
	"time"

	"github.com/go-frost/frost/pkg/errors"
)

type nodeBase struct {
	widget   Widget
	parent   Node
	depth    int
	slot     any
	owner    *BuildOwner
	dirty    bool
	self     Node
	mounted  bool
	offstage bool
	host     *HostNode // nearest ancestor that owns a surface
}

func (n *nodeBase) Widget() Widget {
	return n.widget
}

func (n *nodeBase) Depth() int {
	return n.depth
}

func (n *nodeBase) MarkNeedsBuild() {
	if n.dirty {
		return
	}
	n.dirty = true
	if n.owner != nil && n.self != nil {
		n.owner.ScheduleBuild(n.self)
	}
}

func (n *nodeBase) parentNode() Node {
	return n.parent
}

func (n *nodeBase) setSelf(self Node) {
	n.self = self
}

func (n *nodeBase) setWidget(widget Widget) {
	n.widget = widget
}

func (n *nodeBase) setOwner(owner *BuildOwner) {
	n.owner = owner
}

func (n *nodeBase) setSlot(slot any) {
	n.slot = slot
}

func (n *nodeBase) isMounted() bool {
	return n.mounted
}

func (n *nodeBase) isOffstage() bool {
	return n.offstage
}

func (n *nodeBase) mountBase(parent Node, slot any) {
	n.parent = parent
	n.slot = slot
	if parent != nil {
		n.depth = parent.Depth() + 1
	}
	if base, ok := parent.(interface{ isOffstage() bool }); ok {
		n.offstage = base.isOffstage()
	}
	n.host = n.findHostAncestor()
	n.mounted = true
}

// findHostAncestor walks up the tree to find the nearest HostNode.
func (n *nodeBase) findHostAncestor() *HostNode {
	current := n.parent
	for current != nil {
		if host, ok := current.(*HostNode); ok {
			return host
		}
		if base, ok := current.(interface{ parentNode() Node }); ok {
			current = base.parentNode()
		} else {
			break
		}
	}
	return nil
}

// markHostNeedsPaint schedules a repaint of the surface subtree covering
// this node.
func (n *nodeBase) markHostNeedsPaint() {
	if n.owner == nil {
		return
	}
	if host, ok := n.self.(*HostNode); ok {
		n.owner.Pipeline().MarkNeedsPaint(host)
		return
	}
	if n.host != nil {
		n.owner.Pipeline().MarkNeedsPaint(n.host)
	}
}

func (n *nodeBase) FindAncestor(predicate func(Node) bool) Node {
	current := n.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		if base, ok := current.(interface{ parentNode() Node }); ok {
			current = base.parentNode()
		} else {
			break
		}
	}
	return nil
}

// safeBuild executes a build function with panic recovery.
// If the build panics, it reports the error and returns a fallback widget
// so the failure never unwinds into the render scheduler.
func (n *nodeBase) safeBuild(buildFn func() Widget) Widget {
	var built Widget
	var buildErr *errors.BuildError

	func() {
		defer func() {
			if r := recover(); r != nil {
				buildErr = &errors.BuildError{
					Widget:     reflect.TypeOf(n.widget).String(),
					Node:       reflect.TypeOf(n.self).String(),
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
			}
		}()
		built = buildFn()
	}()

	if buildErr != nil {
		errors.ReportBuildError(buildErr)

		if builder := GetErrorWidgetBuilder(); builder != nil {
			if errWidget := builder(buildErr); errWidget != nil {
				return errWidget
			}
		}

		return errorPlaceholder{err: buildErr}
	}
	return built
}

// StatelessNode hosts a StatelessWidget.
type StatelessNode struct {
	nodeBase
	child Node
}

// NewStatelessNode creates an empty stateless node. The framework attaches
// the widget during inflation.
func NewStatelessNode() *StatelessNode {
	node := &StatelessNode{}
	node.setSelf(node)
	return node
}

func (n *StatelessNode) Mount(parent Node, slot any) {
	n.mountBase(parent, slot)
	n.dirty = true
	n.RebuildIfNeeded()
}

func (n *StatelessNode) Update(newWidget Widget) {
	n.widget = newWidget
	n.MarkNeedsBuild()
}

func (n *StatelessNode) Unmount() {
	n.mounted = false
	if n.child != nil {
		n.child.Unmount()
		n.child = nil
	}
}

func (n *StatelessNode) RebuildIfNeeded() {
	if !n.dirty || !n.mounted {
		return
	}
	n.dirty = false
	widget := n.widget.(StatelessWidget)
	built := n.safeBuild(func() Widget {
		return widget.Build(n)
	})
	n.child = updateChild(n.child, built, n, n.owner)
	n.markHostNeedsPaint()
}

func (n *StatelessNode) VisitChildren(visitor func(Node) bool) {
	if n.child != nil {
		visitor(n.child)
	}
}

// Host returns the surface node from the first host descendant.
func (n *StatelessNode) Host() *HostNode {
	return hostOf(n.child)
}

// StatefulNode hosts a StatefulWidget and its State.
type StatefulNode struct {
	nodeBase
	child Node
	state State
}

// NewStatefulNode creates an empty stateful node. The framework attaches
// the widget during inflation.
func NewStatefulNode() *StatefulNode {
	node := &StatefulNode{}
	node.setSelf(node)
	return node
}

// State returns the state instance owned by this node.
func (n *StatefulNode) State() State {
	return n.state
}

func (n *StatefulNode) Mount(parent Node, slot any) {
	n.mountBase(parent, slot)
	widget := n.widget.(StatefulWidget)
	n.state = widget.CreateState()
	if setter, ok := n.state.(interface{ setNode(*StatefulNode) }); ok {
		setter.setNode(n)
	} else if setter, ok := n.state.(interface{ SetNode(*StatefulNode) }); ok {
		setter.SetNode(n)
	}
	n.state.InitState()
	if n.owner != nil {
		n.owner.notifyMount(n)
		if n.offstage {
			n.owner.notifyStage(n, true)
		}
	}
	n.dirty = true
	n.RebuildIfNeeded()
}

func (n *StatefulNode) Update(newWidget Widget) {
	oldWidget := n.widget.(StatefulWidget)
	n.widget = newWidget
	n.state.DidUpdateWidget(oldWidget)
	n.MarkNeedsBuild()
}

func (n *StatefulNode) Unmount() {
	n.mounted = false
	if n.owner != nil {
		n.owner.notifyUnmount(n)
	}
	if n.child != nil {
		n.child.Unmount()
		n.child = nil
	}
	if n.state != nil {
		n.state.Dispose()
	}
}

func (n *StatefulNode) RebuildIfNeeded() {
	if !n.dirty || !n.mounted {
		return
	}
	n.dirty = false
	built := n.safeBuild(func() Widget {
		return n.state.Build(n)
	})
	n.child = updateChild(n.child, built, n, n.owner)
	n.markHostNeedsPaint()
}

func (n *StatefulNode) VisitChildren(visitor func(Node) bool) {
	if n.child != nil {
		visitor(n.child)
	}
}

// Host returns the surface node from the first host descendant.
func (n *StatefulNode) Host() *HostNode {
	return hostOf(n.child)
}

func (n *StatefulNode) applyStage(off bool) {
	if n.offstage == off {
		return
	}
	n.offstage = off
	if n.owner != nil {
		n.owner.notifyStage(n, off)
	}
	applyStageToChildren(n, off)
}

func (n *StatelessNode) applyStage(off bool) {
	if n.offstage == off {
		return
	}
	n.offstage = off
	applyStageToChildren(n, off)
}

func applyStageToChildren(n Node, off bool) {
	n.VisitChildren(func(child Node) bool {
		if staged, ok := child.(interface{ applyStage(bool) }); ok {
			staged.applyStage(off)
		}
		return true
	})
}

// hostOf descends through composition nodes to the first HostNode.
func hostOf(n Node) *HostNode {
	switch typed := n.(type) {
	case nil:
		return nil
	case *HostNode:
		return typed
	case interface{ Host() *HostNode }:
		return typed.Host()
	default:
		return nil
	}
}

func updateChild(existing Node, widget Widget, parent Node, owner *BuildOwner) Node {
	if widget == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdateWidget(existing.Widget(), widget) {
		existing.Update(widget)
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	node := inflateWidget(widget, owner)
	node.Mount(parent, nil)
	return node
}

// updateChildren diffs an ordered child list positionally: a child whose
// widget type and key match the previous occupant of its slot is reused,
// anything else is torn down and rebuilt. A nil widget keeps a nil
// placeholder in the node list so later siblings stay paired with the
// same slot across rebuilds. Duplicate explicit keys among siblings
// abort the diff; the previous children are kept uncommitted.
func updateChildren(existing []Node, widgets []Widget, parent Node, owner *BuildOwner) ([]Node, error) {
	if err := validateChildKeys(parent.Widget(), widgets); err != nil {
		return existing, err
	}
	updated := make([]Node, 0, len(widgets))
	for index, childWidget := range widgets {
		var prior Node
		if index < len(existing) {
			prior = existing[index]
		}
		child := updateChild(prior, childWidget, parent, owner)
		if child != nil {
			if setter, ok := child.(interface{ setSlot(any) }); ok {
				setter.setSlot(index)
			}
		}
		updated = append(updated, child)
	}
	for i := len(widgets); i < len(existing); i++ {
		if existing[i] != nil {
			existing[i].Unmount()
		}
	}
	return updated, nil
}

func validateChildKeys(parent Widget, widgets []Widget) error {
	var seen map[any]bool
	for _, w := range widgets {
		if w == nil {
			continue
		}
		key := w.Key()
		if key == nil {
			continue
		}
		if seen == nil {
			seen = make(map[any]bool)
		}
		if seen[key] {
			return &errors.DuplicateKeyError{
				Key:    key,
				Parent: reflect.TypeOf(parent).String(),
			}
		}
		seen[key] = true
	}
	return nil
}

func canUpdateWidget(existing Widget, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

// Inflate creates the node for a root widget and binds it to owner. The
// node is not yet mounted; call Mount(nil, nil) to bring it live.
func Inflate(widget Widget, owner *BuildOwner) Node {
	return inflateWidget(widget, owner)
}

func inflateWidget(widget Widget, owner *BuildOwner) Node {
	if widget == nil {
		return nil
	}
	node := widget.CreateNode()
	if setter, ok := node.(interface{ setWidget(Widget) }); ok {
		setter.setWidget(widget)
	}
	if setter, ok := node.(interface{ setOwner(*BuildOwner) }); ok {
		setter.setOwner(owner)
	}
	if setter, ok := node.(interface{ setSelf(Node) }); ok {
		setter.setSelf(node)
	}
	return node
}

// ValidateTree walks a widget description before it is mounted and reports
// construction errors that would make the mount fail, currently duplicate
// sibling keys. Composition widgets are not built; only statically declared
// host children are checked.
func ValidateTree(widget Widget) error {
	host, ok := widget.(HostWidget)
	if !ok {
		return nil
	}
	children := host.ChildWidgets()
	if err := validateChildKeys(widget, children); err != nil {
		return err
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if err := ValidateTree(child); err != nil {
			return err
		}
	}
	return nil
}
