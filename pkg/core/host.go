package core

import (
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/go-frost/frost/pkg/errors"
)

// HostNode hosts a HostWidget and its ordered children. Host nodes are the
// units the render scheduler repaints: marking any node dirty schedules a
// repaint of its nearest host ancestor's subtree.
type HostNode struct {
	nodeBase
	children []Node
}

// NewHostNode creates an empty host node. The framework attaches the widget
// during inflation.
func NewHostNode() *HostNode {
	node := &HostNode{}
	node.setSelf(node)
	return node
}

func (n *HostNode) Mount(parent Node, slot any) {
	n.mountBase(parent, slot)
	n.dirty = true
	n.RebuildIfNeeded()
}

func (n *HostNode) Update(newWidget Widget) {
	n.widget = newWidget
	n.MarkNeedsBuild()
}

func (n *HostNode) Unmount() {
	n.mounted = false
	for _, child := range n.children {
		if child != nil {
			child.Unmount()
		}
	}
	n.children = nil
}

func (n *HostNode) RebuildIfNeeded() {
	if !n.dirty || !n.mounted {
		return
	}
	n.dirty = false

	widget := n.widget.(HostWidget)
	children, err := updateChildren(n.children, widget.ChildWidgets(), n, n.owner)
	if err != nil {
		// The child list is not committed; the previous children stay live.
		errors.Report(&errors.FrostError{
			Op:         "core.HostNode.RebuildIfNeeded",
			Kind:       errors.KindBuild,
			Err:        err,
			Widget:     reflect.TypeOf(n.widget).String(),
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		})
		return
	}
	n.children = children
	n.applySelection()
	n.markHostNeedsPaint()
}

// applySelection re-applies offstage flags when the widget selects a single
// active child. Switched-out subtrees keep their state cells; their tickers
// are paused through the stage-change notification.
func (n *HostNode) applySelection() {
	selector, ok := n.widget.(ChildSelector)
	if !ok {
		return
	}
	active := selector.ActiveChildIndex()
	for index, child := range n.children {
		staged, ok := child.(interface{ applyStage(bool) })
		if !ok {
			continue
		}
		staged.applyStage(n.offstage || index != active)
	}
}

// VisitChildren calls visitor for each live child in order. Placeholder
// slots held by nil widgets are not visited.
func (n *HostNode) VisitChildren(visitor func(Node) bool) {
	for _, child := range n.children {
		if child == nil {
			continue
		}
		if !visitor(child) {
			return
		}
	}
}

// Host returns the node itself.
func (n *HostNode) Host() *HostNode {
	return n
}

// AncestorHost returns the nearest host node above this one, or nil at
// the root of the tree.
func (n *HostNode) AncestorHost() *HostNode {
	return n.host
}

func (n *HostNode) applyStage(off bool) {
	if n.offstage == off {
		return
	}
	n.offstage = off
	applyStageToChildren(n, off)
}

// Offstage reports whether this host is currently switched out of the
// rendered tree.
func (n *HostNode) Offstage() bool {
	return n.offstage
}

// VisitHostChildren calls visitor for each onstage host node directly
// beneath this one in render order, descending through composition nodes.
// Returning false stops the walk.
func (n *HostNode) VisitHostChildren(visitor func(*HostNode) bool) {
	stopped := false
	var walk func(node Node)
	walk = func(node Node) {
		node.VisitChildren(func(child Node) bool {
			if stopped {
				return false
			}
			if base, ok := child.(interface{ isOffstage() bool }); ok && base.isOffstage() {
				return true
			}
			if host, ok := child.(*HostNode); ok {
				if !visitor(host) {
					stopped = true
					return false
				}
				return true
			}
			walk(child)
			return !stopped
		})
	}
	walk(n)
}

// Painter renders one committed surface subtree. Implementations must be
// idempotent per subtree: painting the same unchanged host twice produces
// the same output.
type Painter interface {
	PaintHost(host *HostNode) error
}

// PipelineOwner tracks host nodes whose surfaces need repainting and
// computes the minimal ancestor-closed set to hand to the painter.
type PipelineOwner struct {
	mu    sync.Mutex
	dirty map[*HostNode]bool
}

// MarkNeedsPaint records that the host's surface subtree must be repainted.
// Re-marking an already-dirty host is a no-op.
func (p *PipelineOwner) MarkNeedsPaint(host *HostNode) {
	if host == nil {
		return
	}
	p.mu.Lock()
	if p.dirty == nil {
		p.dirty = make(map[*HostNode]bool)
	}
	p.dirty[host] = true
	p.mu.Unlock()
}

// NeedsPaint returns true if any host is awaiting a repaint.
func (p *PipelineOwner) NeedsPaint() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.dirty) > 0
}

// FlushPaint pops the dirty set and paints each root-most dirty host in
// depth order (root to leaf). A host is skipped when a dirty ancestor's
// repaint already covers it. Paint failures are reported and do not stop
// the remaining subtrees from painting.
func (p *PipelineOwner) FlushPaint(painter Painter) {
	p.mu.Lock()
	if len(p.dirty) == 0 {
		p.mu.Unlock()
		return
	}
	dirty := make([]*HostNode, 0, len(p.dirty))
	for host := range p.dirty {
		dirty = append(dirty, host)
	}
	clear(p.dirty)
	p.mu.Unlock()

	roots := make([]*HostNode, 0, len(dirty))
	for _, host := range dirty {
		if !p.coveredByDirty(host, dirty) {
			roots = append(roots, host)
		}
	}
	slices.SortFunc(roots, func(a, b *HostNode) int {
		return a.Depth() - b.Depth()
	})

	for _, host := range roots {
		if !host.mounted || host.offstage {
			continue
		}
		if err := painter.PaintHost(host); err != nil {
			errors.Report(&errors.FrostError{
				Op:     "core.PipelineOwner.FlushPaint",
				Kind:   errors.KindRender,
				Err:    err,
				Widget: reflect.TypeOf(host.Widget()).String(),
			})
		}
	}
}

func (p *PipelineOwner) coveredByDirty(host *HostNode, dirty []*HostNode) bool {
	ancestor := host.host
	for ancestor != nil {
		for _, candidate := range dirty {
			if candidate == ancestor {
				return true
			}
		}
		ancestor = ancestor.host
	}
	return false
}
