package core

import (
	"fmt"
	"reflect"
)

// Reserved prop names consumed by the descriptor constructors.
const (
	ChildrenProp  = "children"
	KeyProp       = "key"
	RefProp       = "ref"
	InnerHTMLProp = "dangerouslySetInnerHTML"
)

// H creates an element descriptor. The key and ref props are lifted onto the
// descriptor; children given as arguments take precedence over a children
// prop. Children are flattened: nested slices are expanded, nil and bool
// values are skipped, other non-descriptor values become Text.
//
//	core.H("ul", core.Props{"className": "list"},
//	    core.H("li", core.Props{"key": "a"}, "first"),
//	    items,
//	)
func H(tag string, props Props, children ...any) *Element {
	el := &Element{Tag: tag}
	var childProp any
	el.Props, el.Key, el.Ref, childProp = splitReserved(props)
	if len(children) == 0 && childProp != nil {
		children = []any{childProp}
	}
	el.Children = Flatten(children...)
	return el
}

// Call creates a descriptor invoking a stateless function. Children are
// passed in props under ChildrenProp.
func Call(fn *StatelessFunc, props Props, children ...any) *StatelessNode {
	n := &StatelessNode{Func: fn, id: nextID()}
	var childProp any
	n.Props, n.Key, _, childProp = splitReserved(props)
	setChildren(n.Props, childProp, children)
	return n
}

// Create creates a component descriptor. Missing props are filled in from
// the type's DefaultProps; children are passed under ChildrenProp.
func Create(typ *ComponentType, props Props, children ...any) *ComponentNode {
	n := &ComponentNode{Type: typ, id: nextID()}
	var childProp any
	n.Props, n.Key, n.Ref, childProp = splitReserved(props)
	setChildren(n.Props, childProp, children)
	for k, v := range typ.DefaultProps {
		if _, ok := n.Props[k]; !ok {
			n.Props[k] = v
		}
	}
	return n
}

// CreateElement dispatches on typ: a string tag, a *StatelessFunc or a
// *ComponentType.
func CreateElement(typ any, props Props, children ...any) Node {
	switch t := typ.(type) {
	case string:
		return H(t, props, children...)
	case *StatelessFunc:
		return Call(t, props, children...)
	case *ComponentType:
		return Create(t, props, children...)
	default:
		panic(fmt.Sprintf("core: CreateElement: unsupported type %T", typ))
	}
}

// Children returns the flattened children carried in props.
func (p Props) Children() []Node {
	if p == nil {
		return nil
	}
	switch c := p[ChildrenProp].(type) {
	case nil:
		return nil
	case []Node:
		return c
	default:
		return Flatten(c)
	}
}

// Flatten normalizes a children argument list.
func Flatten(children ...any) []Node {
	var out []Node
	for _, c := range children {
		out = appendChild(out, c)
	}
	return out
}

func appendChild(out []Node, c any) []Node {
	switch v := c.(type) {
	case nil, bool:
		return out
	case Node:
		if isNilNode(v) {
			return out
		}
		return append(out, v)
	case string:
		return append(out, Text(v))
	case []Node:
		for _, n := range v {
			out = appendChild(out, n)
		}
		return out
	case []any:
		for _, n := range v {
			out = appendChild(out, n)
		}
		return out
	case fmt.Stringer:
		return append(out, Text(v.String()))
	}
	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			out = appendChild(out, rv.Index(i).Interface())
		}
		return out
	}
	return append(out, Text(fmt.Sprint(c)))
}

func splitReserved(props Props) (rest Props, key, ref, children any) {
	rest = make(Props, len(props))
	for k, v := range props {
		switch k {
		case KeyProp:
			key = v
		case RefProp:
			ref = v
		case ChildrenProp:
			children = v
		default:
			rest[k] = v
		}
	}
	return rest, key, ref, children
}

func setChildren(props Props, childProp any, children []any) {
	switch {
	case len(children) > 0:
		props[ChildrenProp] = Flatten(children...)
	case childProp != nil:
		props[ChildrenProp] = childProp
	}
}
