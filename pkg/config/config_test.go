package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	frosterrors "github.com/go-frost/frost/pkg/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "frost.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing frost.yaml: %v", err)
	}
	return dir
}

func TestLoadOptional_MissingFile(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadOptional() returned nil config")
	}
	if *cfg != (Config{}) {
		t.Errorf("config = %+v, want zero value", *cfg)
	}
}

func TestLoadOptional_ParsesFields(t *testing.T) {
	dir := writeConfig(t, `
app:
  name: demo
viewport:
  width: 120
  height: 40
align:
  horizontal: center
  vertical: middle
frame:
  interval: 32ms
`)

	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.App.Name != "demo" {
		t.Errorf("app name = %q, want %q", cfg.App.Name, "demo")
	}
	if cfg.Viewport.Width != 120 || cfg.Viewport.Height != 40 {
		t.Errorf("viewport = %dx%d, want 120x40", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.Align.Horizontal != "center" || cfg.Align.Vertical != "middle" {
		t.Errorf("align = %q/%q, want center/middle", cfg.Align.Horizontal, cfg.Align.Vertical)
	}
	if cfg.Frame.Interval != "32ms" {
		t.Errorf("frame interval = %q, want %q", cfg.Frame.Interval, "32ms")
	}
}

func TestLoadOptional_MalformedYAML(t *testing.T) {
	dir := writeConfig(t, "viewport: [not, a, mapping\n")

	_, err := LoadOptional(dir)
	if err == nil {
		t.Fatal("LoadOptional() succeeded on malformed yaml")
	}
	var ferr *frosterrors.FrostError
	if !errors.As(err, &ferr) || ferr.Kind != frosterrors.KindConfig {
		t.Errorf("error = %v, want KindConfig FrostError", err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	r, err := Resolve(&Config{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.ViewportWidth != 80 || r.ViewportHeight != 24 {
		t.Errorf("viewport = %dx%d, want 80x24", r.ViewportWidth, r.ViewportHeight)
	}
	if r.HAlign != "left" || r.VAlign != "top" {
		t.Errorf("align = %q/%q, want left/top", r.HAlign, r.VAlign)
	}
	if r.FrameInterval != 16*time.Millisecond {
		t.Errorf("frame interval = %v, want 16ms", r.FrameInterval)
	}
}

func TestResolve_NilConfig(t *testing.T) {
	r, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve(nil) error = %v", err)
	}
	if r.ViewportWidth != 80 || r.ViewportHeight != 24 {
		t.Errorf("viewport = %dx%d, want 80x24", r.ViewportWidth, r.ViewportHeight)
	}
}

func TestResolve_FrameInterval(t *testing.T) {
	r, err := Resolve(&Config{Frame: FrameConfig{Interval: "32ms"}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.FrameInterval != 32*time.Millisecond {
		t.Errorf("frame interval = %v, want 32ms", r.FrameInterval)
	}
}

func TestResolve_BadFrameInterval(t *testing.T) {
	for _, interval := range []string{"fast", "-5ms"} {
		_, err := Resolve(&Config{Frame: FrameConfig{Interval: interval}})
		if err == nil {
			t.Errorf("Resolve() accepted frame interval %q", interval)
			continue
		}
		var ferr *frosterrors.FrostError
		if !errors.As(err, &ferr) || ferr.Kind != frosterrors.KindConfig {
			t.Errorf("error for %q = %v, want KindConfig FrostError", interval, err)
		}
	}
}

func TestResolve_NegativeViewport(t *testing.T) {
	_, err := Resolve(&Config{Viewport: ViewportConfig{Width: -1, Height: 10}})
	if err == nil {
		t.Fatal("Resolve() accepted negative viewport width")
	}
	var ferr *frosterrors.FrostError
	if !errors.As(err, &ferr) || ferr.Kind != frosterrors.KindConfig {
		t.Errorf("error = %v, want KindConfig FrostError", err)
	}
}

func TestResolve_UnknownAlignment(t *testing.T) {
	cases := []Config{
		{Align: AlignConfig{Horizontal: "sideways"}},
		{Align: AlignConfig{Vertical: "diagonal"}},
	}
	for _, cfg := range cases {
		_, err := Resolve(&cfg)
		if err == nil {
			t.Errorf("Resolve() accepted alignment %+v", cfg.Align)
			continue
		}
		var ferr *frosterrors.FrostError
		if !errors.As(err, &ferr) || ferr.Kind != frosterrors.KindConfig {
			t.Errorf("error = %v, want KindConfig FrostError", err)
		}
	}
}
