// Package errors provides structured error handling for the Frost runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindBuild indicates a failure while building a widget subtree.
	KindBuild
	// KindTicker indicates a ticker routine failure.
	KindTicker
	// KindHandler indicates a message handler failure.
	KindHandler
	// KindSubmission indicates an asynchronous form submission failure.
	KindSubmission
	// KindRender indicates a backend render pass failure.
	KindRender
	// KindConfig indicates malformed configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindTicker:
		return "ticker"
	case KindHandler:
		return "handler"
	case KindSubmission:
		return "submission"
	case KindRender:
		return "render"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FrostError represents a structured error in the Frost runtime.
type FrostError struct {
	// Op is the operation that failed (e.g., "ticker.Scheduler.Start").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Widget is the widget type involved, if applicable.
	Widget string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FrostError) Error() string {
	if e.Widget != "" {
		return fmt.Sprintf("%s [%s] widget=%s: %v", e.Op, e.Kind, e.Widget, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FrostError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "frost.runner.StepFrame").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// DuplicateKeyError reports two siblings constructed with the same key.
// It is fatal to the tree build that produced it: the offending child list
// is not committed.
type DuplicateKeyError struct {
	// Key is the duplicated key value.
	Key any
	// Parent is the type name of the widget whose children collided.
	Parent string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %v among children of %s", e.Key, e.Parent)
}

// BuildError represents a failure during widget build.
type BuildError struct {
	// Widget is the type name of the widget that failed.
	Widget string
	// Node is the node kind hosting the widget (StatelessNode, StatefulNode, ...).
	Node string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Build(): %v", e.Widget, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Build(): %v", e.Widget, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Build()", e.Widget)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Handler receives errors reported by the Frost runtime.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FrostError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a widget build fails.
	HandleBuildError(err *BuildError)
}
