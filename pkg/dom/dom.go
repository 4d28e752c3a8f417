// Package dom defines the boundary between the reconciler and a concrete host tree.
//
// The reconciler never touches host nodes directly; every structural or property
// mutation goes through a [Host]. Implementations exist for real document trees
// and, in [github.com/go-drift/vdom/pkg/dom/memory], for an in-memory document
// used by tests and headless rendering.
package dom

// SVGNamespace is the namespace URI for elements created under an svg root.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Node is an opaque handle to a live host node.
//
// Handles must be comparable and stable for the lifetime of the node, since the
// reconciler keys its side tables by them. Pointers are the usual choice.
type Node any

// Host creates and mutates host nodes.
type Host interface {
	// CreateElement creates an element node. An empty namespace selects the
	// host's default namespace.
	CreateElement(tag, namespace string) Node
	CreateText(text string) Node
	CreateComment(text string) Node
	// SetText replaces the content of a text node.
	SetText(node Node, text string)

	AppendChild(parent, child Node)
	// InsertBefore moves or inserts child before ref. A nil ref appends.
	InsertBefore(parent, child, ref Node)
	RemoveChild(parent, child Node)
	ReplaceChild(parent, newChild, oldChild Node)

	// Parent returns the parent of node, or nil when detached.
	Parent(node Node) Node
	// ChildAt returns the child at index, or nil when out of range.
	ChildAt(parent Node, index int) Node
	// Namespace returns the namespace node was created with.
	Namespace(node Node) string

	// ApplyProps sets the initial properties of a freshly created element.
	ApplyProps(node Node, props map[string]any)
	// PatchProps moves node from oldProps to newProps. It must be a no-op
	// when both describe the same properties.
	PatchProps(node Node, oldProps, newProps map[string]any)
}

// Listener is implemented by hosts that support direct event subscription on
// a node. The reconciler uses it for events that do not bubble.
type Listener interface {
	// Listen subscribes handler to event on node. A nil handler unsubscribes.
	Listen(node Node, event string, handler func(*Event))
}

// Event is delivered to handlers registered through element props.
type Event struct {
	// Type is the normalized event name, e.g. "click".
	Type string
	// Target is the node the event was dispatched to.
	Target Node
	// CurrentTarget is the node whose handler is running.
	CurrentTarget Node
	// Data carries host-specific payload.
	Data any

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}
