package elements

import (
	"strings"

	"github.com/go-frost/frost/pkg/core"
)

// TextInput is a named input field. Its current value lives in a state
// cell owned by the field's node, so rebuilding an enclosing form does not
// clear what the user typed.
type TextInput struct {
	core.StatefulBase

	// Name identifies the field in the form's collected values.
	Name string
	// Label is shown next to the input.
	Label string
	// MaxLen caps the value length; 0 means unlimited.
	MaxLen int
	// Masked displays the value as asterisks (password entry).
	Masked bool
	// Initial seeds the value when the field first mounts.
	Initial string
}

func (TextInput) CreateState() core.State { return &textInputState{} }

// Field is implemented by input states a Form collects values from.
type Field interface {
	FieldName() string
	FieldValue() string
	SetFieldValue(value string)
	ResetField()
}

type textInputState struct {
	core.StateBase
	value *core.Cell[string]
}

func (s *textInputState) InitState() {
	w := s.Node().Widget().(TextInput)
	s.value = core.NewCell(s, w.Initial)
}

func (s *textInputState) Build(ctx core.BuildContext) core.Widget {
	w := s.Node().Widget().(TextInput)
	shown := s.value.Get()
	if w.Masked {
		shown = strings.Repeat("*", len([]rune(shown)))
	}
	content := shown
	if w.Label != "" {
		content = w.Label + ": " + shown
	}
	return Text{Content: content}
}

// FieldName implements Field.
func (s *textInputState) FieldName() string {
	return s.Node().Widget().(TextInput).Name
}

// FieldValue implements Field.
func (s *textInputState) FieldValue() string {
	return s.value.Get()
}

// SetFieldValue implements Field, truncating to MaxLen. It must run on the
// UI goroutine; input drivers and tests are its callers.
func (s *textInputState) SetFieldValue(value string) {
	w := s.Node().Widget().(TextInput)
	if w.MaxLen > 0 {
		runes := []rune(value)
		if len(runes) > w.MaxLen {
			value = string(runes[:w.MaxLen])
		}
	}
	s.value.Set(value)
}

// ResetField implements Field.
func (s *textInputState) ResetField() {
	s.value.Set(s.Node().Widget().(TextInput).Initial)
}
