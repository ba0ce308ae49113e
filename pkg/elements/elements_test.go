package elements_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/frosttest"
	"github.com/go-frost/frost/pkg/ticker"
)

// switcher hosts a Switch whose active index the test flips through its
// state.
type switcher struct {
	core.StatefulBase
	children []core.Widget
}

func (w switcher) CreateState() core.State { return &switcherState{} }

type switcherState struct {
	core.StateBase
	active *core.Cell[int]
}

func (s *switcherState) InitState() {
	s.active = core.NewCell(s, 0)
}

func (s *switcherState) Build(ctx core.BuildContext) core.Widget {
	w := s.Node().Widget().(switcher)
	return elements.Switch{Active: s.active.Get(), Children: w.children}
}

func byButtonLabel(label string) frosttest.Finder {
	return frosttest.ByPredicate(func(n core.Node) bool {
		b, ok := n.Widget().(elements.Button)
		return ok && b.Label == label
	})
}

func findSwitcher(t *testing.T, tester *frosttest.Tester) *switcherState {
	t.Helper()
	node := tester.Find(frosttest.ByType[switcher]()).First()
	return node.(*core.StatefulNode).State().(*switcherState)
}

func TestSwitch_PreservesFieldValueAcrossFlips(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(switcher{children: []core.Widget{
		elements.TextInput{Name: "username"},
		elements.Text{Content: "other"},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	if err := tester.EnterText(frosttest.ByType[elements.TextInput](), "frosty"); err != nil {
		t.Fatalf("EnterText: %v", err)
	}

	state := findSwitcher(t, tester)
	state.active.Set(1)
	if err := tester.Pump(); err != nil {
		t.Fatalf("Pump: %v", err)
	}

	// The input is switched out, not destroyed.
	input := tester.Find(frosttest.ByType[elements.TextInput]())
	if !input.Exists() {
		t.Fatal("switched-out input was unmounted")
	}

	state.active.Set(0)
	if err := tester.Pump(); err != nil {
		t.Fatalf("Pump: %v", err)
	}

	field := tester.Find(frosttest.ByType[elements.TextInput]()).First().(*core.StatefulNode).State().(elements.Field)
	if got := field.FieldValue(); got != "frosty" {
		t.Errorf("field value after flip = %q, want %q", got, "frosty")
	}
}

func TestSwitch_PausesAndResumesTicker(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(switcher{children: []core.Widget{
		elements.TextClock{},
		elements.Text{Content: "other"},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	clockState := tester.Find(frosttest.ByType[elements.TextClock]()).First().(*core.StatefulNode).State()
	if got := tester.Scheduler().TickerState(clockState); got != ticker.Running {
		t.Fatalf("ticker state on mount = %v, want running", got)
	}

	state := findSwitcher(t, tester)
	state.active.Set(1)
	if err := tester.Pump(); err != nil {
		t.Fatalf("Pump: %v", err)
	}
	if got := tester.Scheduler().TickerState(clockState); got != ticker.Paused {
		t.Errorf("ticker state switched out = %v, want paused", got)
	}

	state.active.Set(0)
	if err := tester.Pump(); err != nil {
		t.Fatalf("Pump: %v", err)
	}
	if got := tester.Scheduler().TickerState(clockState); got != ticker.Running {
		t.Errorf("ticker state switched back = %v, want running", got)
	}
}

func TestTextClock_UnmountCancelsTicker(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.TextClock{},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}
	if tester.Scheduler().Active() != 1 {
		t.Fatalf("active tickers = %d, want 1", tester.Scheduler().Active())
	}

	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.Text{Content: "no clock"},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}
	if tester.Scheduler().Active() != 0 {
		t.Errorf("active tickers after unmount = %d, want 0", tester.Scheduler().Active())
	}
}

func TestTextInput_MaxLenTruncates(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.TextInput{Name: "code", MaxLen: 4},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	if err := tester.EnterText(frosttest.ByType[elements.TextInput](), "abcdefgh"); err != nil {
		t.Fatalf("EnterText: %v", err)
	}

	field := tester.Find(frosttest.ByType[elements.TextInput]()).First().(*core.StatefulNode).State().(elements.Field)
	if got := field.FieldValue(); got != "abcd" {
		t.Errorf("value = %q, want %q", got, "abcd")
	}
}

func TestTextInput_MaskedRendersAsterisks(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.TextInput{Name: "pw", Masked: true, Initial: "secret"},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	if !tester.Find(frosttest.ByText("******")).Exists() {
		t.Error("masked input did not render asterisks")
	}
	if tester.Find(frosttest.ByTextContaining("secret")).Exists() {
		t.Error("masked input leaked its value")
	}
}

func TestForm_SubmitCollectsValues(t *testing.T) {
	var mu sync.Mutex
	var got map[string]string

	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.Form{
			OnSubmit: func(ctx context.Context, values map[string]string) error {
				mu.Lock()
				got = values
				mu.Unlock()
				return nil
			},
			Children: []core.Widget{
				elements.TextInput{Name: "username"},
				elements.TextInput{Name: "password", Masked: true},
			},
		},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	inputs := tester.Find(frosttest.ByType[elements.TextInput]())
	if inputs.Count() != 2 {
		t.Fatalf("inputs = %d, want 2", inputs.Count())
	}
	username := inputs.All()[0].(*core.StatefulNode).State().(elements.Field)
	password := inputs.All()[1].(*core.StatefulNode).State().(elements.Field)
	username.SetFieldValue("ada")
	password.SetFieldValue("hunter2")

	if err := tester.Tap(frosttest.ByType[elements.Button]()); err != nil {
		t.Fatalf("Tap: %v", err)
	}

	// OnSubmit runs on its own goroutine.
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		done := got != nil
		mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("OnSubmit never ran")
		}
		time.Sleep(time.Millisecond)
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatalf("PumpAndSettle: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got["username"] != "ada" || got["password"] != "hunter2" {
		t.Errorf("collected values = %v", got)
	}
}

func TestForm_SubmitErrorShownInline(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.Form{
			OnSubmit: func(ctx context.Context, values map[string]string) error {
				return errSubmit
			},
			Children: []core.Widget{
				elements.TextInput{Name: "username"},
			},
		},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	if err := tester.Tap(frosttest.ByType[elements.Button]()); err != nil {
		t.Fatalf("Tap: %v", err)
	}

	// The failing OnSubmit runs on its own goroutine and dispatches the
	// error back; keep pumping until the error line appears.
	deadline := time.Now().Add(time.Second)
	for !tester.Find(frosttest.ByText(errSubmit.Error())).Exists() {
		if time.Now().After(deadline) {
			t.Fatal("submit error not rendered")
		}
		if err := tester.PumpAndSettle(100 * time.Millisecond); err != nil {
			t.Fatalf("PumpAndSettle: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestForm_ResetRestoresInitialValues(t *testing.T) {
	tester := frosttest.NewTester(t)
	if err := tester.PumpWidget(elements.Board{Children: []core.Widget{
		elements.Form{
			Children: []core.Widget{
				elements.TextInput{Name: "username", Initial: "guest"},
			},
		},
	}}); err != nil {
		t.Fatalf("PumpWidget: %v", err)
	}

	if err := tester.EnterText(frosttest.ByType[elements.TextInput](), "typed"); err != nil {
		t.Fatalf("EnterText: %v", err)
	}
	if err := tester.Tap(byButtonLabel("Reset")); err != nil {
		t.Fatalf("Tap: %v", err)
	}

	field := tester.Find(frosttest.ByType[elements.TextInput]()).First().(*core.StatefulNode).State().(elements.Field)
	if got := field.FieldValue(); got != "guest" {
		t.Errorf("value after reset = %q, want %q", got, "guest")
	}
}

func TestButton_DisabledIgnoresClick(t *testing.T) {
	clicked := false
	button := elements.Button{Label: "go", Disabled: true, OnClick: func() { clicked = true }}
	button.Click()
	if clicked {
		t.Error("disabled button invoked OnClick")
	}
}

var errSubmit = errSubmitType{}

type errSubmitType struct{}

func (errSubmitType) Error() string { return "credentials rejected" }
