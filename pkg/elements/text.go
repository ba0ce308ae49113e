package elements

import "github.com/go-frost/frost/pkg/core"

// Text is a leaf element displaying a string.
type Text struct {
	core.HostBase

	// Content is the displayed string.
	Content string
	// Bold renders the content emphasized when the backend supports it.
	Bold bool
}

func (t Text) ChildWidgets() []core.Widget { return nil }

// Button is a clickable leaf element. It is a controlled component: the
// label comes from the widget description and clicking invokes OnClick on
// the UI goroutine. OnClick typically mutates state cells or publishes a
// message on the world's bus.
type Button struct {
	core.HostBase

	// Label is the button text.
	Label string
	// OnClick is called when the button is activated.
	OnClick func()
	// Disabled suppresses OnClick when true.
	Disabled bool
}

func (b Button) ChildWidgets() []core.Widget { return nil }

// Click activates the button. Input drivers and tests call this; it must
// run on the UI goroutine.
func (b Button) Click() {
	if b.Disabled || b.OnClick == nil {
		return
	}
	b.OnClick()
}
