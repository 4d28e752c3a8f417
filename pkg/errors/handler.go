package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// installed wraps the global handler so atomic.Value always stores one
// concrete type.
type installed struct {
	h ErrorHandler
}

var current atomic.Value

func init() {
	current.Store(installed{h: &LogHandler{}})
}

// SetHandler installs h as the global error handler. A nil h restores the
// default LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(installed{h: h})
}

// Handler returns the global error handler.
func Handler() ErrorHandler {
	return current.Load().(installed).h
}

// Report sends err to the global handler, stamping it if needed.
func Report(err *VDOMError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// ReportRender sends a failed render to the global handler.
func ReportRender(err *RenderError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleRenderError(err)
}

// Guard runs fn. A panic inside fn is reported and returned as a
// *PanicError attributed to op.
func Guard(op string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			perr := &PanicError{
				Op:         op,
				Value:      rec,
				StackTrace: CaptureStack(),
				Timestamp:  time.Now(),
			}
			ReportPanic(perr)
			err = perr
		}
	}()
	fn()
	return nil
}

// CaptureStack formats the stack of the calling goroutine, starting at the
// caller of CaptureStack's caller.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			return sb.String()
		}
	}
}
