// Package core provides the descriptor model, the reconciler and the
// component lifecycle.
//
// A UI is described by a tree of immutable descriptors (Node). The
// Reconciler compares a new tree with the previous one and applies the
// smallest set of mutations to a live host tree through a dom.Host.
// Host nodes are reused whenever a descriptor keeps its kind, type and key.
//
// # Core Types
//
// Element describes a host element and is built with H. Text and Comment are
// leaves. StatelessNode invokes a render function; ComponentNode creates a
// stateful component instance.
//
// # Stateful Components
//
// Embed Base in your component struct and implement Render:
//
//	type counter struct {
//	    core.Base
//	}
//
//	func (c *counter) GetInitialState() core.State {
//	    return core.State{"n": 0}
//	}
//
//	func (c *counter) Render() any {
//	    return core.H("button", core.Props{
//	        "onClick": func() {
//	            c.SetState(core.State{"n": c.State()["n"].(int) + 1}, nil)
//	        },
//	    }, c.State()["n"])
//	}
//
//	var Counter = &core.ComponentType{
//	    Name: "Counter",
//	    New:  func() core.Component { return &counter{} },
//	}
//
// Lifecycle hooks are optional interfaces (WillMounter, DidMounter,
// ShouldUpdater and so on) discovered on the instance.
//
// # Update Scheduling
//
// SetState renders synchronously unless a render of the same instance is
// already in progress, in which case the patch is queued and folded into a
// single follow-up render. Reconciler.Batch and Reconciler.Dispatch defer
// all renders until the batch returns. ComponentDidMount runs after the
// outermost reconciliation pass, children before parents.
//
// # Observability
//
// WithLogger routes decisions to a logr.Logger, WithObserver reports
// lifecycle events (see the metrics package) and WithTracerProvider records
// an OpenTelemetry span per root render, root update, unmount and dispatch.
//
// # Threading
//
// A Reconciler and the instances it mounts are single-threaded. Callers must
// serialize every call.
package core
