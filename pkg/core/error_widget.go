package core

import (
	"sync"

	"github.com/go-frost/frost/pkg/errors"
)

// ErrorWidgetBuilder creates a fallback widget when a widget build fails.
// The builder receives the build error and should return a widget to
// display in place of the failed widget.
type ErrorWidgetBuilder func(err *errors.BuildError) Widget

var (
	errorWidgetBuilder ErrorWidgetBuilder
	errorBuilderMu     sync.RWMutex
)

// SetErrorWidgetBuilder configures the global error widget builder.
// Pass nil to restore the default placeholder behavior.
func SetErrorWidgetBuilder(builder ErrorWidgetBuilder) {
	errorBuilderMu.Lock()
	defer errorBuilderMu.Unlock()
	errorWidgetBuilder = builder
}

// GetErrorWidgetBuilder returns the current error widget builder, or nil
// when none is configured.
func GetErrorWidgetBuilder() ErrorWidgetBuilder {
	errorBuilderMu.RLock()
	defer errorBuilderMu.RUnlock()
	return errorWidgetBuilder
}

// errorPlaceholder is the minimal fallback widget shown when a build fails
// and no error widget builder is configured. It renders nothing; the error
// has already been reported.
type errorPlaceholder struct {
	err *errors.BuildError
}

func (p errorPlaceholder) CreateNode() Node {
	node := NewStatelessNode()
	node.setWidget(p)
	return node
}

func (p errorPlaceholder) Key() any {
	return nil
}

func (p errorPlaceholder) Build(ctx BuildContext) Widget {
	return nil
}
