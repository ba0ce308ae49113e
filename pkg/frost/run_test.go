package frost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	frosterrors "github.com/go-frost/frost/pkg/errors"
	"github.com/go-frost/frost/pkg/render"
	"github.com/go-frost/frost/pkg/ticker"
)

func testWorld(root core.Widget) World {
	config := DefaultWorldConfig()
	config.FrameInterval = 0 // no pacing in tests
	return World{Root: root, Config: config}
}

func runUntil(t *testing.T, world World, backend render.Backend, until func() bool) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, world, WithBackend(backend), WithRegistry(&bus.Registry{}))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if until() {
			cancel()
			select {
			case err := <-done:
				return err
			case <-time.After(2 * time.Second):
				t.Fatal("Run did not return after cancel")
			}
		}
		select {
		case err := <-done:
			return err
		default:
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	t.Fatal("condition not met while world was running")
	return nil
}

func TestRun_RendersInitialFrame(t *testing.T) {
	recorder := render.NewRecorder()
	world := testWorld(elements.Board{Children: []core.Widget{
		elements.Text{Content: "hello"},
	}})

	err := runUntil(t, world, recorder, func() bool {
		return recorder.FrameCount() >= 1
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if recorder.PassCount() == 0 {
		t.Error("no paint passes recorded")
	}
}

func TestRun_NilRootFails(t *testing.T) {
	err := Run(context.Background(), testWorld(nil), WithRegistry(&bus.Registry{}))
	if err == nil {
		t.Fatal("expected error for nil root")
	}
	var fe *frosterrors.FrostError
	if !errors.As(err, &fe) || fe.Kind != frosterrors.KindBuild {
		t.Errorf("error = %v, want build-kind FrostError", err)
	}
}

func TestRun_DuplicateKeysAreFatal(t *testing.T) {
	world := testWorld(elements.Board{Children: []core.Widget{
		keyedText{key: "x"},
		keyedText{key: "x"},
	}})

	err := Run(context.Background(), world, WithRegistry(&bus.Registry{}))
	var dup *frosterrors.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateKeyError", err)
	}
}

type keyedText struct {
	core.StatelessBase
	key any
}

func (w keyedText) Key() any { return w.key }

func (w keyedText) Build(ctx core.BuildContext) core.Widget {
	return elements.Text{Content: "keyed"}
}

// tickerWidget mounts a counting routine so run tests can observe ticker
// lifecycle through the runtime.
type tickerWidget struct {
	core.StatefulBase
}

func (tickerWidget) CreateState() core.State { return &tickerWidgetState{} }

type tickerWidgetState struct {
	core.StateBase
	ticks *core.Cell[int]
}

func (s *tickerWidgetState) InitState() {
	s.ticks = core.NewCell(s, 0)
}

func (s *tickerWidgetState) Build(ctx core.BuildContext) core.Widget {
	return elements.Text{Content: "ticks"}
}

func (s *tickerWidgetState) Tick(ctx context.Context, t *ticker.Ticker) error {
	for {
		if err := t.Wait(ctx, time.Millisecond); err != nil {
			return err
		}
		Dispatch(func() {
			s.ticks.Update(func(n int) int { return n + 1 })
		})
	}
}

func TestRun_TickerDrivesFrames(t *testing.T) {
	recorder := render.NewRecorder()
	world := testWorld(elements.Board{Children: []core.Widget{
		tickerWidget{},
	}})

	err := runUntil(t, world, recorder, func() bool {
		return recorder.FrameCount() >= 3
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunner_CoalescesDispatchesIntoOneFrame(t *testing.T) {
	recorder := render.NewRecorder()
	scheduler := ticker.NewScheduler()
	defer scheduler.Shutdown()

	world := testWorld(elements.Board{Children: []core.Widget{
		elements.TextInput{Name: "field"},
	}})
	r := newRunner(world, recorder, &bus.Registry{}, scheduler)
	if err := r.mountRoot(); err != nil {
		t.Fatalf("mountRoot: %v", err)
	}
	r.stepFrame()
	base := recorder.FrameCount()

	var field elements.Field
	r.root.VisitChildren(func(n core.Node) bool {
		if stateful, ok := n.(*core.StatefulNode); ok {
			field = stateful.State().(elements.Field)
			return false
		}
		return true
	})
	if field == nil {
		t.Fatal("input field not found")
	}

	// Three mutations queued between frames produce one render pass that
	// observes only the final value.
	r.dispatch(func() { field.SetFieldValue("a") })
	r.dispatch(func() { field.SetFieldValue("ab") })
	r.dispatch(func() { field.SetFieldValue("abc") })
	r.stepFrame()

	if got := recorder.FrameCount() - base; got != 1 {
		t.Errorf("frames for three mutations = %d, want 1", got)
	}
	if got := field.FieldValue(); got != "abc" {
		t.Errorf("value = %q, want %q", got, "abc")
	}
	r.teardown()
}

func TestRunner_NoFrameWhenNothingChanged(t *testing.T) {
	recorder := render.NewRecorder()
	scheduler := ticker.NewScheduler()
	defer scheduler.Shutdown()

	world := testWorld(elements.Board{Children: []core.Widget{
		elements.Text{Content: "static"},
	}})
	r := newRunner(world, recorder, &bus.Registry{}, scheduler)
	if err := r.mountRoot(); err != nil {
		t.Fatalf("mountRoot: %v", err)
	}
	r.stepFrame()
	base := recorder.FrameCount()

	r.stepFrame()
	if recorder.FrameCount() != base {
		t.Error("idle step produced a frame")
	}
	r.teardown()
}

func TestSend_NoWorldIsNoOp(t *testing.T) {
	Send(struct{}{}) // must not panic
}

func TestLoadWorldConfig_MissingFile(t *testing.T) {
	config, err := LoadWorldConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadWorldConfig: %v", err)
	}
	if config.Viewport != DefaultWorldConfig().Viewport {
		t.Errorf("viewport = %+v, want default", config.Viewport)
	}
	if config.FrameInterval != DefaultWorldConfig().FrameInterval {
		t.Errorf("frame interval = %v, want default", config.FrameInterval)
	}
}
