package memory

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// NodeType identifies the kind of a memory node.
type NodeType int

const (
	// ElementNode is a tagged element with attributes and children.
	ElementNode NodeType = iota
	// TextNode holds character data.
	TextNode
	// CommentNode holds comment data.
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Node is a node of an in-memory document.
type Node struct {
	Type      NodeType
	Tag       string
	Namespace string
	// Data is the content of text and comment nodes.
	Data string

	attrs     map[string]any
	parent    *Node
	children  []*Node
	listeners map[string]func(*dom.Event)
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Attr returns the attribute value stored under name.
func (n *Node) Attr(name string) (any, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Attrs returns a copy of the attribute map.
func (n *Node) Attrs() map[string]any {
	out := make(map[string]any, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// HasListener reports whether a direct listener is subscribed for event.
func (n *Node) HasListener(event string) bool {
	_, ok := n.listeners[event]
	return ok
}

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	if n.Type == CommentNode {
		return ""
	}
	var out []byte
	for _, c := range n.children {
		out = append(out, c.TextContent()...)
	}
	return string(out)
}

// Walk visits n and its descendants in depth-first pre-order until visit
// returns false.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) detach(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.children = append(n.children[:i], n.children[i+1:]...)
		child.parent = nil
	}
}

func (n *Node) insertAt(child *Node, index int) {
	if child.parent != nil {
		child.parent.detach(child)
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
}
