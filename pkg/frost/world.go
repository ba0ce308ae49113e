// Package frost is the runtime: it owns the live node tree, the message
// bus, the ticker scheduler, and the frame loop that keeps the rendered
// output consistent with application state.
package frost

import (
	"time"

	"github.com/go-frost/frost/pkg/config"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/render"
)

// World is the complete description of a running UI: one root widget plus
// global configuration. Application code produces a World from a pure
// builder function handed to Run; the runtime owns everything after that.
type World struct {
	Root   core.Widget
	Config WorldConfig
}

// WorldConfig carries the global presentation defaults.
type WorldConfig struct {
	// Viewport is the drawable area. Zero means the backend decides
	// (terminal backends autodetect).
	Viewport render.Viewport
	// HAlign and VAlign are the alignment defaults applied by containers
	// that do not set their own.
	HAlign elements.HAlign
	VAlign elements.VAlign
	// FrameInterval is the minimum spacing between render passes. All
	// mutations recorded within one interval are coalesced into a single
	// pass.
	FrameInterval time.Duration
}

// DefaultWorldConfig returns the standard configuration: an 80x24
// viewport, top-left alignment, and ~60 passes per second.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Viewport:      render.Viewport{Width: 80, Height: 24},
		FrameInterval: 16 * time.Millisecond,
	}
}

// LoadWorldConfig reads frost.yaml from dir and resolves it into a
// WorldConfig. A missing file yields DefaultWorldConfig.
func LoadWorldConfig(dir string) (WorldConfig, error) {
	cfg, err := config.LoadOptional(dir)
	if err != nil {
		return WorldConfig{}, err
	}
	resolved, err := config.Resolve(cfg)
	if err != nil {
		return WorldConfig{}, err
	}
	wc := WorldConfig{
		Viewport:      render.Viewport{Width: resolved.ViewportWidth, Height: resolved.ViewportHeight},
		FrameInterval: resolved.FrameInterval,
	}
	switch resolved.HAlign {
	case "center":
		wc.HAlign = elements.HAlignCenter
	case "right":
		wc.HAlign = elements.HAlignRight
	}
	switch resolved.VAlign {
	case "middle":
		wc.VAlign = elements.VAlignMiddle
	case "bottom":
		wc.VAlign = elements.VAlignBottom
	}
	return wc, nil
}
