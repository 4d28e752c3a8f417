// Package errors provides structured error handling for the reconciler.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRenderResult is returned when render logic produces a value
	// that is neither empty nor a recognizable descriptor.
	ErrInvalidRenderResult = stderrors.New("invalid render result")
	// ErrMissingRender is returned when a component type is assembled
	// without a render implementation.
	ErrMissingRender = stderrors.New("missing render implementation")
	// ErrRenderPanic marks a render that panicked.
	ErrRenderPanic = stderrors.New("render panicked")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindRender indicates a failure inside user render logic.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConstruct indicates a component type could not be assembled.
	KindConstruct
	// KindConfig indicates invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindConstruct:
		return "construct"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// VDOMError represents a structured error outside of a render pass.
type VDOMError struct {
	// Op is the operation that failed (e.g., "class.Create").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *VDOMError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *VDOMError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic outside of render logic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "core.Dispatch").
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

// RenderError identifies the component or function whose render failed.
type RenderError struct {
	// Component is the display name of the component type or stateless
	// function that produced the result.
	Component string
	// Phase is the lifecycle step that failed ("render", "mount", "update").
	Phase string
	// Err is the underlying error, ErrInvalidRenderResult or ErrRenderPanic.
	Err error
	// Recovered is the panic value (nil unless Err is ErrRenderPanic).
	Recovered any
	// Result describes the offending render result type, if any.
	Result string
	// StackTrace contains the call stack for recovered panics.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	switch {
	case e.Recovered != nil:
		return fmt.Sprintf("@%s#%s: panic: %v", e.Component, e.Phase, e.Recovered)
	case e.Result != "":
		return fmt.Sprintf("@%s#%s: %v: got %s", e.Component, e.Phase, e.Err, e.Result)
	default:
		return fmt.Sprintf("@%s#%s: %v", e.Component, e.Phase, e.Err)
	}
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// ErrorHandler receives errors reported by the reconciler.
type ErrorHandler interface {
	// HandleError is called for structured errors.
	HandleError(err *VDOMError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render pass fails.
	HandleRenderError(err *RenderError)
}
