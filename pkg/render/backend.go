// Package render defines the contract between the runtime's paint
// scheduler and a concrete rendering backend.
package render

import (
	"sync"

	"github.com/go-frost/frost/pkg/core"
)

// Viewport is the drawable area in backend cells.
type Viewport struct {
	Width  int
	Height int
}

// Backend turns committed surface subtrees into output. PaintHost must be
// idempotent: painting the same unchanged host twice produces the same
// output. The frame loop calls BeginFrame, then PaintHost for each
// root-most dirty host, then EndFrame; a PaintHost error fails that
// subtree's pass only.
type Backend interface {
	BeginFrame(viewport Viewport)
	PaintHost(host *core.HostNode) error
	EndFrame() error
}

// Pass records one PaintHost call.
type Pass struct {
	Host   *core.HostNode
	Widget core.Widget
}

// Recorder is a Backend that records paint passes instead of drawing.
// Tests use it to assert what the render scheduler repainted and when.
type Recorder struct {
	mu      sync.Mutex
	frames  [][]Pass
	current []Pass
	open    bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// BeginFrame starts recording a frame.
func (r *Recorder) BeginFrame(viewport Viewport) {
	r.mu.Lock()
	r.current = nil
	r.open = true
	r.mu.Unlock()
}

// PaintHost records the pass.
func (r *Recorder) PaintHost(host *core.HostNode) error {
	r.mu.Lock()
	r.current = append(r.current, Pass{Host: host, Widget: host.Widget()})
	r.mu.Unlock()
	return nil
}

// EndFrame commits the recorded frame. Frames with zero passes are kept:
// an empty frame is evidence the scheduler coalesced correctly.
func (r *Recorder) EndFrame() error {
	r.mu.Lock()
	if r.open {
		r.frames = append(r.frames, r.current)
		r.current = nil
		r.open = false
	}
	r.mu.Unlock()
	return nil
}

// Frames returns all committed frames.
func (r *Recorder) Frames() [][]Pass {
	r.mu.Lock()
	defer r.mu.Unlock()
	frames := make([][]Pass, len(r.frames))
	copy(frames, r.frames)
	return frames
}

// FrameCount returns the number of committed frames.
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// PassCount returns the total number of paint passes across all frames.
func (r *Recorder) PassCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, frame := range r.frames {
		total += len(frame)
	}
	return total
}
