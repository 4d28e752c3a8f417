package errors

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// LogHandler is an ErrorHandler that writes through a logr.Logger.
// The zero value logs to stderr.
type LogHandler struct {
	// Verbose enables stack traces.
	Verbose bool
	// Logger receives the records. A zero Logger selects a stderr sink.
	Logger logr.Logger
}

// NewLogHandler returns a LogHandler writing to stderr with the given
// verbosity. Verbosity above zero enables stack traces.
func NewLogHandler(verbosity int) *LogHandler {
	return &LogHandler{
		Verbose: verbosity > 0,
		Logger:  stderrLogger(verbosity),
	}
}

func stderrLogger(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity}).WithName("vdom")
}

func (h *LogHandler) logger() logr.Logger {
	if h.Logger.GetSink() == nil {
		return stderrLogger(0)
	}
	return h.Logger
}

// HandleError logs a VDOMError.
func (h *LogHandler) HandleError(err *VDOMError) {
	if err == nil {
		return
	}
	h.logger().Error(err.Err, "operation failed", "op", err.Op, "kind", err.Kind.String())
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	kv := []any{"op", err.Op, "value", fmt.Sprint(err.Value)}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.logger().Error(nil, "recovered panic", kv...)
}

// HandleRenderError logs a RenderError.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	kv := []any{"component", err.Component, "phase", err.Phase}
	if err.Result != "" {
		kv = append(kv, "result", err.Result)
	}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.logger().Error(err, "render failed", kv...)
}
