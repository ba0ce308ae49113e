package core

import (
	"slices"
	"sync"
)

// BuildOwner tracks dirty nodes that need rebuilding. It is the render
// scheduler's bookkeeping half: state cell mutations land here as dirty
// marks, and the frame loop drains them with FlushBuild.
type BuildOwner struct {
	dirty    []Node
	dirtySet map[Node]bool
	pipeline PipelineOwner
	mu       sync.Mutex

	// OnNeedsFrame is called when a new node is scheduled for rebuild,
	// signalling the runtime that a frame should be rendered. This is
	// necessary for on-demand frame scheduling where the frame loop is
	// parked until explicitly requested.
	OnNeedsFrame func()

	// OnMount is called after a stateful node's state is initialized.
	// The runtime uses it to attach message handlers and start tickers.
	OnMount func(*StatefulNode)

	// OnUnmount is called when a stateful node leaves the tree, before its
	// state is disposed.
	OnUnmount func(*StatefulNode)

	// OnStageChange is called when a stateful node is switched off stage
	// (true) or back on stage (false).
	OnStageChange func(node *StatefulNode, offstage bool)
}

// NewBuildOwner creates a new BuildOwner.
func NewBuildOwner() *BuildOwner {
	return &BuildOwner{}
}

// Pipeline returns the paint scheduling half of the owner.
func (b *BuildOwner) Pipeline() *PipelineOwner {
	return &b.pipeline
}

// ScheduleBuild marks a node as needing rebuild. Re-scheduling an
// already-dirty node is a no-op.
func (b *BuildOwner) ScheduleBuild(node Node) {
	added := func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.dirtySet[node] {
			return false
		}
		if b.dirtySet == nil {
			b.dirtySet = make(map[Node]bool)
		}
		b.dirtySet[node] = true
		b.dirty = append(b.dirty, node)
		return true
	}()

	if added && b.OnNeedsFrame != nil {
		b.OnNeedsFrame()
	}
}

// NeedsWork returns true if there are dirty nodes or pending paint.
func (b *BuildOwner) NeedsWork() bool {
	b.mu.Lock()
	hasDirty := len(b.dirty) > 0
	b.mu.Unlock()
	if hasDirty {
		return true
	}
	return b.pipeline.NeedsPaint()
}

// FlushBuild rebuilds all dirty nodes in depth order (root to leaf), so a
// child's rebuild always observes its parent's latest committed build.
// Mutations recorded between two flushes are coalesced: each dirty node is
// rebuilt once per flush regardless of how many times it was marked.
func (b *BuildOwner) FlushBuild() {
	for {
		b.mu.Lock()
		if len(b.dirty) == 0 {
			b.mu.Unlock()
			return
		}

		slices.SortFunc(b.dirty, func(a, b Node) int {
			return a.Depth() - b.Depth()
		})

		dirty := b.dirty
		b.dirty = nil
		clear(b.dirtySet)
		b.mu.Unlock()

		for _, node := range dirty {
			if mountable, ok := node.(interface{ isMounted() bool }); ok && !mountable.isMounted() {
				continue
			}
			node.RebuildIfNeeded()
		}
	}
}

func (b *BuildOwner) notifyMount(node *StatefulNode) {
	if b.OnMount != nil {
		b.OnMount(node)
	}
}

func (b *BuildOwner) notifyUnmount(node *StatefulNode) {
	if b.OnUnmount != nil {
		b.OnUnmount(node)
	}
}

func (b *BuildOwner) notifyStage(node *StatefulNode, offstage bool) {
	if b.OnStageChange != nil {
		b.OnStageChange(node, offstage)
	}
}
