package elements

import (
	"context"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/dispatch"
	"github.com/go-frost/frost/pkg/errors"
)

// Form gathers the values of descendant input fields and submits them
// asynchronously. Submission failure is surfaced through the form's own
// state, never the render loop: a failed OnSubmit shows as the form's
// error line while the rest of the UI keeps running.
//
//	elements.Form{
//	    OnSubmit: func(ctx context.Context, values map[string]string) error {
//	        return api.Login(ctx, values["username"], values["password"])
//	    },
//	    Children: []core.Widget{
//	        elements.TextInput{Name: "username", Label: "Username"},
//	        elements.TextInput{Name: "password", Label: "Password", Masked: true},
//	    },
//	}
type Form struct {
	core.StatefulBase

	// OnSubmit receives the collected field values keyed by field name.
	// It runs on its own goroutine; the context is canceled if the form
	// leaves the tree before the submission finishes.
	OnSubmit func(ctx context.Context, values map[string]string) error
	// SubmitLabel is the submit button text. Defaults to "Submit".
	SubmitLabel string
	// ResetLabel is the reset button text. Defaults to "Reset".
	ResetLabel string
	// Children holds the form body, including its input fields.
	Children []core.Widget
}

func (Form) CreateState() core.State { return &formState{} }

type formState struct {
	core.StateBase
	submitting *core.Cell[bool]
	submitErr  *core.Cell[string]
	ctx        context.Context
	cancel     context.CancelFunc
}

func (s *formState) InitState() {
	s.submitting = core.NewCell(s, false)
	s.submitErr = core.NewCell(s, "")
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.OnDispose(s.cancel)
}

func (s *formState) Build(ctx core.BuildContext) core.Widget {
	w := s.Node().Widget().(Form)
	submitLabel := w.SubmitLabel
	if submitLabel == "" {
		submitLabel = "Submit"
	}
	resetLabel := w.ResetLabel
	if resetLabel == "" {
		resetLabel = "Reset"
	}

	children := make([]core.Widget, 0, len(w.Children)+2)
	children = append(children, w.Children...)
	children = append(children, Row{
		Gap: 1,
		Children: []core.Widget{
			Button{Label: submitLabel, OnClick: s.Submit, Disabled: s.submitting.Get()},
			Button{Label: resetLabel, OnClick: s.Reset},
		},
	})
	if msg := s.submitErr.Get(); msg != "" {
		children = append(children, Text{Content: msg})
	}
	return Card{Children: children}
}

// Submit collects the field values and runs OnSubmit on a background
// goroutine. The result is dispatched back to the UI goroutine; if the
// form was disposed in the meantime the state update is dropped.
func (s *formState) Submit() {
	w := s.Node().Widget().(Form)
	if w.OnSubmit == nil || s.submitting.Get() {
		return
	}
	values := s.Values()
	s.submitting.Set(true)
	s.submitErr.Set("")

	go func() {
		defer errors.Recover("elements.formState.Submit")
		err := w.OnSubmit(s.ctx, values)
		apply := func() {
			s.SetState(func() {
				s.submitting.Set(false)
				if err != nil {
					s.submitErr.Set(err.Error())
				}
			})
		}
		if !dispatch.Dispatch(apply) {
			apply()
		}
		if err != nil {
			errors.Report(&errors.FrostError{
				Op:     "elements.Form.OnSubmit",
				Kind:   errors.KindSubmission,
				Err:    err,
				Widget: "elements.Form",
			})
		}
	}()
}

// Reset restores every descendant field to its initial value and clears
// the submission error.
func (s *formState) Reset() {
	s.visitFields(func(f Field) {
		f.ResetField()
	})
	s.submitErr.Set("")
}

// Values returns the current field values keyed by field name.
func (s *formState) Values() map[string]string {
	values := make(map[string]string)
	s.visitFields(func(f Field) {
		values[f.FieldName()] = f.FieldValue()
	})
	return values
}

// visitFields walks the form's subtree and calls fn for each descendant
// input field, in tree order.
func (s *formState) visitFields(fn func(Field)) {
	var walk func(n core.Node)
	walk = func(n core.Node) {
		n.VisitChildren(func(child core.Node) bool {
			if stateful, ok := child.(*core.StatefulNode); ok {
				if field, ok := stateful.State().(Field); ok {
					fn(field)
				}
			}
			walk(child)
			return true
		})
	}
	if node := s.Node(); node != nil {
		walk(node)
	}
}
