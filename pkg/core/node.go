package core

import (
	"fmt"
	"reflect"
	"sync/atomic"
)

// Node is an immutable descriptor of what should exist at one position of the
// host tree. The set of implementations is closed: *Element, *StatelessNode,
// *ComponentNode, Text and Comment.
type Node interface {
	kind() nodeKind
}

type nodeKind uint8

const (
	kindText nodeKind = iota + 1
	kindComment
	kindElement
	kindStateless
	kindComponent
)

func (k nodeKind) String() string {
	switch k {
	case kindText:
		return "text"
	case kindComment:
		return "comment"
	case kindElement:
		return "element"
	case kindStateless:
		return "stateless"
	case kindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Props are the properties of an element or component descriptor.
type Props map[string]any

// State is the opaque state of a component instance.
type State map[string]any

// Context is the inherited context passed down the component tree.
type Context map[string]any

// Refs maps string ref keys to attached targets: host nodes for elements,
// component instances for components.
type Refs map[string]any

// Text is a plain text leaf.
type Text string

func (Text) kind() nodeKind { return kindText }

// Comment is a placeholder rendered where render logic produced nothing.
type Comment string

func (Comment) kind() nodeKind { return kindComment }

// Element describes a host element.
type Element struct {
	Tag   string
	Props Props
	// Children are flattened: no nested slices, no nil or bool entries.
	Children []Node
	Key      any
	// Ref is a string key into the owner's Refs, or a func(any) callback.
	Ref any
}

func (*Element) kind() nodeKind { return kindElement }

// StatelessFunc is a render function without instance or state.
type StatelessFunc struct {
	Name string
	// ContextTypes lists the context keys the function receives.
	ContextTypes []string
	Render       func(props Props, ctx Context) any
}

// StatelessNode describes an invocation of a StatelessFunc.
type StatelessNode struct {
	Func  *StatelessFunc
	Props Props
	Key   any

	id uint64
}

func (*StatelessNode) kind() nodeKind { return kindStateless }

// ID returns the process-unique identity of the descriptor.
func (n *StatelessNode) ID() uint64 { return n.id }

// ComponentNode describes a stateful component.
type ComponentNode struct {
	Type  *ComponentType
	Props Props
	Key   any
	Ref   any

	id uint64
}

func (*ComponentNode) kind() nodeKind { return kindComponent }

// ID returns the process-unique identity of the descriptor.
func (n *ComponentNode) ID() uint64 { return n.id }

// PropValidator checks one declared prop. It returns a non-nil error when
// props[name] is invalid for component.
type PropValidator func(props Props, name, component string) error

// ComponentType is the closed capability set of a stateful component.
type ComponentType struct {
	// Name identifies the type in errors, logs and metrics.
	Name string
	// New creates a zero instance. The instance must embed Base.
	New func() Component
	// ContextTypes lists the parent context keys the instance receives.
	ContextTypes []string
	// DefaultProps fill in props that a descriptor leaves unset.
	DefaultProps Props
	// PropTypes are checked in debug mode on every mount and update.
	PropTypes map[string]PropValidator
	// Statics carries type-level values.
	Statics map[string]any
}

var uid atomic.Uint64

func nextID() uint64 {
	return uid.Add(1)
}

// sameNode reports whether two descriptors are the same logical node: equal
// kind, type and key.
func sameNode(a, b Node) bool {
	if a == b {
		return true
	}
	if a.kind() != b.kind() {
		return false
	}
	switch a := a.(type) {
	case Text, Comment:
		return true
	case *Element:
		b := b.(*Element)
		return a.Tag == b.Tag && keyEqual(a.Key, b.Key)
	case *StatelessNode:
		b := b.(*StatelessNode)
		return a.Func == b.Func && keyEqual(a.Key, b.Key)
	case *ComponentNode:
		b := b.(*ComponentNode)
		return a.Type == b.Type && keyEqual(a.Key, b.Key)
	default:
		panic(fmt.Sprintf("core: unknown node %T", a))
	}
}

func keyEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// isNilNode reports whether n is nil or a typed nil pointer.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Element:
		return v == nil
	case *StatelessNode:
		return v == nil
	case *ComponentNode:
		return v == nil
	}
	return false
}

// describe renders a short label for logs.
func describe(n Node) string {
	switch n := n.(type) {
	case nil:
		return "<nil>"
	case Text:
		return "#text"
	case Comment:
		return "#comment"
	case *Element:
		return "<" + n.Tag + ">"
	case *StatelessNode:
		return n.Func.displayName()
	case *ComponentNode:
		return n.Type.displayName()
	default:
		return fmt.Sprintf("%T", n)
	}
}

func (f *StatelessFunc) displayName() string {
	if f == nil || f.Name == "" {
		return "Stateless"
	}
	return f.Name
}

func (t *ComponentType) displayName() string {
	if t == nil || t.Name == "" {
		return "Component"
	}
	return t.Name
}
