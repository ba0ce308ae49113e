package frosttest

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/errors"
)

type keyedLabel struct {
	core.HostBase

	key   string
	label string
}

func (k keyedLabel) Key() any { return k.key }

func (k keyedLabel) ChildWidgets() []core.Widget {
	return []core.Widget{elements.Text{Content: k.label}}
}

func sampleBoard() elements.Board {
	return elements.Board{
		Children: []core.Widget{
			elements.Card{
				Title: "Sample",
				Children: []core.Widget{
					elements.Text{Content: "hello"},
					elements.Text{Content: "hello world"},
					keyedLabel{key: "greeting", label: "hi"},
					elements.Button{Label: "OK"},
				},
			},
		},
	}
}

func TestTester_PumpWidgetRecordsFrame(t *testing.T) {
	tester := NewTesterWithRegistry(t, &bus.Registry{})
	if err := tester.PumpWidget(sampleBoard()); err != nil {
		t.Fatalf("PumpWidget() error = %v", err)
	}
	if tester.Recorder().FrameCount() == 0 {
		t.Error("expected at least one recorded frame")
	}
	if tester.Root() == nil {
		t.Error("expected a mounted root")
	}
}

func TestTester_PumpWidgetRejectsDuplicateKeys(t *testing.T) {
	tester := NewTesterWithRegistry(t, &bus.Registry{})
	board := elements.Board{
		Children: []core.Widget{
			keyedLabel{key: "dup", label: "a"},
			keyedLabel{key: "dup", label: "b"},
		},
	}
	err := tester.PumpWidget(board)
	if err == nil {
		t.Fatal("PumpWidget() accepted duplicate keys")
	}
	var dup *errors.DuplicateKeyError
	if !stderrors.As(err, &dup) {
		t.Errorf("error = %v, want DuplicateKeyError", err)
	}
	if tester.Root() != nil {
		t.Error("nothing should be mounted after a failed validation")
	}
}

func TestFind_ByType(t *testing.T) {
	tester := NewTesterWithRegistry(t, &bus.Registry{})
	if err := tester.PumpWidget(sampleBoard()); err != nil {
		t.Fatalf("PumpWidget() error = %v", err)
	}

	result := tester.Find(ByType[elements.Button]())
	if result.Count() != 1 {
		t.Fatalf("ByType[Button] matched %d nodes, want 1", result.Count())
	}
	if got := result.Widget().(elements.Button).Label; got != "OK" {
		t.Errorf("button label = %q, want %q", got, "OK")
	}
}

func TestFind_ByText(t *testing.T) {
	tester := NewTesterWithRegistry(t, &bus.Registry{})
	if err := tester.PumpWidget(sampleBoard()); err != nil {
		t.Fatalf("PumpWidget() error = %v", err)
	}

	if got := tester.Find(ByText("hello")).Count(); got != 1 {
		t.Errorf("ByText(hello) matched %d nodes, want exact match only", got)
	}
	if got := tester.Find(ByTextContaining("hello")).Count(); got != 2 {
		t.Errorf("ByTextContaining(hello) matched %d nodes, want 2", got)
	}
	if tester.Find(ByText("missing")).Exists() {
		t.Error("ByText(missing) should not match")
	}
	if tester.Find(ByText("missing")).FirstOrNil() != nil {
		t.Error("FirstOrNil should be nil for no matches")
	}
}

func TestFind_ByKey(t *testing.T) {
	tester := NewTesterWithRegistry(t, &bus.Registry{})
	if err := tester.PumpWidget(sampleBoard()); err != nil {
		t.Fatalf("PumpWidget() error = %v", err)
	}

	result := tester.Find(ByKey("greeting"))
	if result.Count() != 1 {
		t.Fatalf("ByKey(greeting) matched %d nodes, want 1", result.Count())
	}
	if got := result.Widget().(keyedLabel).label; got != "hi" {
		t.Errorf("label = %q, want %q", got, "hi")
	}
}

func TestFind_ByPredicate(t *testing.T) {
	tester := NewTesterWithRegistry(t, &bus.Registry{})
	if err := tester.PumpWidget(sampleBoard()); err != nil {
		t.Fatalf("PumpWidget() error = %v", err)
	}

	result := tester.Find(ByPredicate(func(n core.Node) bool {
		_, ok := n.Widget().(elements.Card)
		return ok
	}))
	if result.Count() != 1 {
		t.Errorf("predicate matched %d nodes, want 1", result.Count())
	}
}

type clickedMsg struct{}

type counterWidget struct {
	core.StatefulBase
}

func (counterWidget) CreateState() core.State { return &counterState{} }

type counterState struct {
	core.StateBase
	count *core.Cell[int]
}

func (s *counterState) InitState() {
	s.count = core.NewCell(s, 0)
}

func (s *counterState) Build(ctx core.BuildContext) core.Widget {
	return elements.Text{Content: "count"}
}

func TestTester_BusDeliveryUpdatesCounter(t *testing.T) {
	registry := &bus.Registry{}
	bus.RegisterOn(registry, func(s *counterState, msg clickedMsg, ctx *bus.Context) error {
		s.count.Update(func(n int) int { return n + 1 })
		return nil
	})

	tester := NewTesterWithRegistry(t, registry)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{counterWidget{}}}); err != nil {
		t.Fatalf("PumpWidget() error = %v", err)
	}

	tester.Bus().Send(clickedMsg{})
	tester.Bus().Send(clickedMsg{})
	tester.Bus().Send(clickedMsg{})

	// Delivery crosses the bus goroutine, so pump until the effects land.
	state := tester.Find(ByType[counterWidget]()).First().(*core.StatefulNode).State().(*counterState)
	deadline := time.Now().Add(time.Second)
	for state.count.Get() != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("count = %d after three sends, want 3", state.count.Get())
		}
		if err := tester.Pump(); err != nil {
			t.Fatalf("Pump() error = %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFinderResult_FirstPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("First() should panic when nothing matched")
		}
	}()
	FinderResult{finder: ByText("missing")}.First()
}
