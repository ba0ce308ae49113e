package demo

import (
	"context"
	"errors"
	"time"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/frost"
)

const (
	loginScreen = iota
	mainScreen
)

// loginApp switches between a login form and the main board. The switch
// keeps the login form mounted, so flipping back preserves the typed
// field values.
type loginApp struct {
	core.StatefulBase
}

func (loginApp) CreateState() core.State { return &loginAppState{} }

type loginAppState struct {
	core.StateBase
	screen *core.Cell[int]
}

func (s *loginAppState) InitState() {
	s.screen = core.NewCell(s, loginScreen)
}

func (s *loginAppState) Build(ctx core.BuildContext) core.Widget {
	return elements.Switch{
		Active: s.screen.Get(),
		Children: []core.Widget{
			s.loginBoard(),
			mainBoard(),
		},
	}
}

func (s *loginAppState) loginBoard() core.Widget {
	return elements.Form{
		SubmitLabel: "Login",
		OnSubmit: func(ctx context.Context, values map[string]string) error {
			if values["username"] == "" {
				return errors.New("username is required")
			}
			// Stand-in for a real credential check.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(200 * time.Millisecond):
			}
			dispatch.Dispatch(func() {
				s.screen.Set(mainScreen)
			})
			return nil
		},
		Children: []core.Widget{
			elements.Row{Children: []core.Widget{
				elements.TextInput{Name: "username", Label: "User name", MaxLen: 20},
			}},
			elements.Row{Children: []core.Widget{
				elements.TextInput{Name: "password", Label: "Password", MaxLen: 20, Masked: true},
			}},
		},
	}
}

func mainBoard() core.Widget {
	return elements.Card{
		Children: []core.Widget{
			elements.Text{Content: "Welcome to the main board!"},
		},
	}
}

// Login shows a form submitting through the runtime and a switch flipping
// to the main board on success.
func Login(config frost.WorldConfig) frost.World {
	return frost.World{
		Root: elements.Board{
			HAlign: elements.HAlignCenter,
			VAlign: elements.VAlignMiddle,
			Children: []core.Widget{
				loginApp{},
			},
		},
		Config: config,
	}
}
