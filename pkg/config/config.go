// Package config loads the optional frost.yaml world configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	frosterrors "github.com/go-frost/frost/pkg/errors"
)

// Config represents the optional frost.yaml configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Viewport ViewportConfig `yaml:"viewport"`
	Align    AlignConfig    `yaml:"align"`
	Frame    FrameConfig    `yaml:"frame"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// ViewportConfig sets the drawable area in cells.
type ViewportConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// AlignConfig sets the world's alignment defaults.
type AlignConfig struct {
	Horizontal string `yaml:"horizontal,omitempty"` // left, center, right
	Vertical   string `yaml:"vertical,omitempty"`   // top, middle, bottom
}

// FrameConfig contains render scheduling settings.
type FrameConfig struct {
	// Interval is the minimum spacing between frames, e.g. "16ms".
	Interval string `yaml:"interval,omitempty"`
}

// Resolved contains resolved configuration values with defaults applied.
type Resolved struct {
	AppName        string
	ViewportWidth  int
	ViewportHeight int
	HAlign         string
	VAlign         string
	FrameInterval  time.Duration
}

// LoadOptional reads frost.yaml from dir if present. A missing file is not
// an error; a malformed one is.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "frost.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read frost.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &frosterrors.FrostError{
			Op:   "config.LoadOptional",
			Kind: frosterrors.KindConfig,
			Err:  fmt.Errorf("failed to parse frost.yaml: %w", err),
		}
	}

	return &cfg, nil
}

// Resolve applies defaults and validates the configuration.
func Resolve(cfg *Config) (*Resolved, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	r := &Resolved{
		AppName:        cfg.App.Name,
		ViewportWidth:  cfg.Viewport.Width,
		ViewportHeight: cfg.Viewport.Height,
		HAlign:         cfg.Align.Horizontal,
		VAlign:         cfg.Align.Vertical,
	}
	if cfg.Frame.Interval != "" {
		d, err := time.ParseDuration(cfg.Frame.Interval)
		if err != nil {
			return nil, &frosterrors.FrostError{
				Op:   "config.Resolve",
				Kind: frosterrors.KindConfig,
				Err:  fmt.Errorf("invalid frame interval %q: %w", cfg.Frame.Interval, err),
			}
		}
		if d < 0 {
			return nil, &frosterrors.FrostError{
				Op:   "config.Resolve",
				Kind: frosterrors.KindConfig,
				Err:  fmt.Errorf("frame interval must be non-negative, got %s", d),
			}
		}
		r.FrameInterval = d
	}
	if r.ViewportWidth == 0 {
		r.ViewportWidth = 80
	}
	if r.ViewportHeight == 0 {
		r.ViewportHeight = 24
	}
	if r.HAlign == "" {
		r.HAlign = "left"
	}
	if r.VAlign == "" {
		r.VAlign = "top"
	}
	if r.FrameInterval == 0 {
		r.FrameInterval = 16 * time.Millisecond
	}

	if r.ViewportWidth < 0 || r.ViewportHeight < 0 {
		return nil, &frosterrors.FrostError{
			Op:   "config.Resolve",
			Kind: frosterrors.KindConfig,
			Err:  fmt.Errorf("viewport dimensions must be non-negative, got %dx%d", r.ViewportWidth, r.ViewportHeight),
		}
	}
	switch r.HAlign {
	case "left", "center", "right":
	default:
		return nil, &frosterrors.FrostError{
			Op:   "config.Resolve",
			Kind: frosterrors.KindConfig,
			Err:  fmt.Errorf("unknown horizontal alignment %q", r.HAlign),
		}
	}
	switch r.VAlign {
	case "top", "middle", "bottom":
	default:
		return nil, &frosterrors.FrostError{
			Op:   "config.Resolve",
			Kind: frosterrors.KindConfig,
			Err:  fmt.Errorf("unknown vertical alignment %q", r.VAlign),
		}
	}
	return r, nil
}
