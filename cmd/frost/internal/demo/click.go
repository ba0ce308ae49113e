package demo

import (
	"strconv"

	"github.com/go-frost/frost/pkg/bus"
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/frost"
)

// IncreaseClicked is published when the increase button is pressed.
type IncreaseClicked struct{}

// clickCount displays a count driven by IncreaseClicked messages.
type clickCount struct {
	core.StatefulBase
}

func (clickCount) CreateState() core.State { return &clickCountState{} }

type clickCountState struct {
	core.StateBase
	count *core.Cell[int]
}

func (s *clickCountState) InitState() {
	s.count = core.NewCell(s, 0)
}

func (s *clickCountState) Build(ctx core.BuildContext) core.Widget {
	return elements.Text{Content: "count: " + strconv.Itoa(s.count.Get())}
}

var _ = bus.Register(func(s *clickCountState, msg IncreaseClicked, ctx *bus.Context) error {
	s.count.Update(func(n int) int { return n + 1 })
	return nil
})

// Click shows a button publishing to the message bus and a text element
// receiving from it.
func Click(config frost.WorldConfig) frost.World {
	return frost.World{
		Root: elements.Board{
			HAlign: elements.HAlignCenter,
			VAlign: elements.VAlignMiddle,
			Children: []core.Widget{
				elements.Card{
					Title: "Click",
					Children: []core.Widget{
						elements.Row{Children: []core.Widget{
							elements.Button{
								Label: "Increase Count",
								OnClick: func() {
									frost.Send(IncreaseClicked{})
								},
							},
						}},
						elements.Row{Children: []core.Widget{
							clickCount{},
						}},
					},
				},
			},
		},
		Config: config,
	}
}
