package elements

import (
	"context"
	"time"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/ticker"
)

// TextClock displays the current time, advanced by its own ticker. The
// ticker is bound to the element's node: removing the node from the tree
// cancels it, and a switched-out clock pauses instead.
//
//	elements.TextClock{Format: "15:04:05"}
type TextClock struct {
	core.StatefulBase

	// Format is a time layout string. Defaults to "15:04:05".
	Format string
	// Interval is the tick period. Defaults to one second.
	Interval time.Duration
}

func (TextClock) CreateState() core.State { return &textClockState{} }

type textClockState struct {
	core.StateBase
	now *core.Cell[time.Time]
}

func (s *textClockState) InitState() {
	s.now = core.NewCell(s, time.Now())
}

func (s *textClockState) Build(ctx core.BuildContext) core.Widget {
	w := s.Node().Widget().(TextClock)
	format := w.Format
	if format == "" {
		format = "15:04:05"
	}
	return Text{Content: s.now.Get().Format(format)}
}

// Tick implements ticker.Routine. Each resumption performs one cell
// mutation, dispatched to the UI goroutine.
func (s *textClockState) Tick(ctx context.Context, t *ticker.Ticker) error {
	w := s.Node().Widget().(TextClock)
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}
	for {
		if err := t.Wait(ctx, interval); err != nil {
			return err
		}
		now := time.Now()
		if !dispatch.Dispatch(func() { s.now.Set(now) }) {
			s.now.Set(now)
		}
	}
}
