package demo

import (
	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/frost"
)

// Clock shows the built-in TextClock element updating once a second.
func Clock(config frost.WorldConfig) frost.World {
	return frost.World{
		Root: elements.Board{
			HAlign: elements.HAlignCenter,
			VAlign: elements.VAlignMiddle,
			Children: []core.Widget{
				elements.Card{
					Title: "Clock",
					Children: []core.Widget{
						elements.Row{Children: []core.Widget{
							elements.Text{Content: "Clock Example", Bold: true},
						}},
						elements.Row{Children: []core.Widget{
							elements.TextClock{Format: "15:04:05"},
						}},
					},
				},
			},
		},
		Config: config,
	}
}
