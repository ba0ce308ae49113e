package demo

import (
	"context"
	"strconv"
	"time"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/frost"
	"github.com/go-frost/frost/pkg/ticker"
)

// secondCounter counts elapsed seconds with its own ticker.
type secondCounter struct {
	core.StatefulBase
}

func (secondCounter) CreateState() core.State { return &secondCounterState{} }

type secondCounterState struct {
	core.StateBase
	seconds *core.Cell[int]
}

func (s *secondCounterState) InitState() {
	s.seconds = core.NewCell(s, 0)
}

func (s *secondCounterState) Build(ctx core.BuildContext) core.Widget {
	return elements.Text{Content: strconv.Itoa(s.seconds.Get()) + "s"}
}

func (s *secondCounterState) Tick(ctx context.Context, t *ticker.Ticker) error {
	for {
		if err := t.Wait(ctx, time.Second); err != nil {
			return err
		}
		advance := func() {
			s.seconds.Update(func(n int) int { return n + 1 })
		}
		if !dispatch.Dispatch(advance) {
			advance()
		}
	}
}

// Timer shows a custom ticker element counting elapsed seconds.
func Timer(config frost.WorldConfig) frost.World {
	return frost.World{
		Root: elements.Board{
			HAlign: elements.HAlignCenter,
			VAlign: elements.VAlignMiddle,
			Children: []core.Widget{
				elements.Card{
					Title: "Timer",
					Children: []core.Widget{
						elements.Row{Children: []core.Widget{
							elements.Text{Content: "Timer Example", Bold: true},
						}},
						elements.Row{Children: []core.Widget{
							secondCounter{},
						}},
					},
				},
			},
		},
		Config: config,
	}
}
