package elements

import "github.com/go-frost/frost/pkg/core"

// Board is the top-level container of a world. It fills the viewport and
// positions its children according to its alignment defaults.
//
// Use struct literal construction; zero values align top-left:
//
//	elements.Board{
//	    HAlign:   elements.HAlignCenter,
//	    VAlign:   elements.VAlignMiddle,
//	    Children: []core.Widget{...},
//	}
type Board struct {
	core.HostBase

	// HAlign is the horizontal alignment applied to children.
	HAlign HAlign
	// VAlign is the vertical alignment applied to children.
	VAlign VAlign
	// Children are rendered in order, stacked vertically.
	Children []core.Widget
}

func (b Board) ChildWidgets() []core.Widget { return b.Children }

// Card groups children in a bordered box.
type Card struct {
	core.HostBase

	// Title is drawn in the card's border when non-empty.
	Title string
	// Children are rendered in order, stacked vertically.
	Children []core.Widget
}

func (c Card) ChildWidgets() []core.Widget { return c.Children }

// Row lays children out horizontally in order.
type Row struct {
	core.HostBase

	// Gap is the number of cells between adjacent children.
	Gap int
	// Children are rendered left to right.
	Children []core.Widget
}

func (r Row) ChildWidgets() []core.Widget { return r.Children }

// Switch renders exactly one of its children, selected by Active.
// Switched-out children stay mounted: their state cells keep their values
// and their tickers are paused, so switching back resumes rather than
// resets. Replacing a child's widget type or key still tears it down as in
// any diff.
type Switch struct {
	core.HostBase

	// Active is the index of the child to render. Out-of-range values
	// render nothing.
	Active int
	// Children are the selectable subtrees.
	Children []core.Widget
}

func (s Switch) ChildWidgets() []core.Widget { return s.Children }

// ActiveChildIndex implements core.ChildSelector.
func (s Switch) ActiveChildIndex() int { return s.Active }
