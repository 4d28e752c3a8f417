// Package memory implements dom.Host over an in-memory document.
//
// Every structural, text and property mutation is recorded in a journal so
// callers can assert exactly which host operations a reconciliation pass
// performed. Raw markup injected through the dangerouslySetInnerHTML property
// is parsed with golang.org/x/net/html.
package memory

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-drift/vdom/pkg/dom"
)

// InnerHTMLProp is the property carrying raw markup. Its value is either a
// string or a map holding the markup under "__html".
const InnerHTMLProp = "dangerouslySetInnerHTML"

// Op names a journaled mutation.
type Op string

const (
	OpAppend  Op = "append"
	OpInsert  Op = "insert"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
	OpText    Op = "text"
	OpProps   Op = "props"
)

// Mutation is one journaled host operation.
type Mutation struct {
	Op     Op
	Parent *Node
	Child  *Node
	// Keys lists the property names touched by an OpProps mutation.
	Keys []string
}

func (m Mutation) String() string {
	switch m.Op {
	case OpProps:
		return fmt.Sprintf("%s %s %v", m.Op, describe(m.Child), m.Keys)
	case OpText:
		return fmt.Sprintf("%s %s", m.Op, describe(m.Child))
	default:
		return fmt.Sprintf("%s %s -> %s", m.Op, describe(m.Child), describe(m.Parent))
	}
}

// Document is an in-memory host tree. It is not safe for concurrent use.
type Document struct {
	mutations []Mutation
}

var (
	_ dom.Host     = (*Document)(nil)
	_ dom.Listener = (*Document)(nil)
)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateContainer creates a detached element suitable as a render root.
// Creation is not journaled.
func (d *Document) CreateContainer(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag, attrs: map[string]any{}}
}

// Mutations returns the journal accumulated since the last reset.
func (d *Document) Mutations() []Mutation {
	out := make([]Mutation, len(d.mutations))
	copy(out, d.mutations)
	return out
}

// ResetMutations clears the journal.
func (d *Document) ResetMutations() {
	d.mutations = nil
}

func (d *Document) record(m Mutation) {
	d.mutations = append(d.mutations, m)
}

func (d *Document) CreateElement(tag, namespace string) dom.Node {
	return &Node{Type: ElementNode, Tag: tag, Namespace: namespace, attrs: map[string]any{}}
}

func (d *Document) CreateText(text string) dom.Node {
	return &Node{Type: TextNode, Data: text}
}

func (d *Document) CreateComment(text string) dom.Node {
	return &Node{Type: CommentNode, Data: text}
}

func (d *Document) SetText(node dom.Node, text string) {
	n := must(node)
	if n.Data == text {
		return
	}
	n.Data = text
	d.record(Mutation{Op: OpText, Child: n})
}

func (d *Document) AppendChild(parent, child dom.Node) {
	p, c := must(parent), must(child)
	p.insertAt(c, len(p.children))
	d.record(Mutation{Op: OpAppend, Parent: p, Child: c})
}

func (d *Document) InsertBefore(parent, child, ref dom.Node) {
	p, c := must(parent), must(child)
	index := len(p.children)
	if r := asNode(ref); r != nil {
		if r == c {
			return
		}
		index = p.indexOf(r)
		if index < 0 {
			panic("memory: InsertBefore reference is not a child of parent")
		}
		// Detaching c first shifts the reference when c precedes it.
		if c.parent == p && p.indexOf(c) < index {
			index--
		}
	}
	p.insertAt(c, index)
	d.record(Mutation{Op: OpInsert, Parent: p, Child: c})
}

func (d *Document) RemoveChild(parent, child dom.Node) {
	p, c := must(parent), must(child)
	if c.parent != p {
		panic("memory: RemoveChild node is not a child of parent")
	}
	p.detach(c)
	d.record(Mutation{Op: OpRemove, Parent: p, Child: c})
}

func (d *Document) ReplaceChild(parent, newChild, oldChild dom.Node) {
	p, nc, oc := must(parent), must(newChild), must(oldChild)
	index := p.indexOf(oc)
	if index < 0 {
		panic("memory: ReplaceChild node is not a child of parent")
	}
	if nc.parent != nil {
		nc.parent.detach(nc)
		index = p.indexOf(oc)
	}
	p.children[index] = nc
	nc.parent = p
	oc.parent = nil
	d.record(Mutation{Op: OpReplace, Parent: p, Child: nc})
}

func (d *Document) Parent(node dom.Node) dom.Node {
	n := must(node)
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (d *Document) ChildAt(parent dom.Node, index int) dom.Node {
	p := must(parent)
	if index < 0 || index >= len(p.children) {
		return nil
	}
	return p.children[index]
}

func (d *Document) Namespace(node dom.Node) string {
	return must(node).Namespace
}

func (d *Document) ApplyProps(node dom.Node, props map[string]any) {
	d.PatchProps(node, nil, props)
}

func (d *Document) PatchProps(node dom.Node, oldProps, newProps map[string]any) {
	n := must(node)
	var touched []string
	for key := range oldProps {
		if _, ok := newProps[key]; ok {
			continue
		}
		d.removeProp(n, key)
		touched = append(touched, key)
	}
	for key, value := range newProps {
		if old, ok := oldProps[key]; ok && reflect.DeepEqual(old, value) {
			continue
		}
		d.setProp(n, key, value)
		touched = append(touched, key)
	}
	if len(touched) == 0 {
		return
	}
	sort.Strings(touched)
	d.record(Mutation{Op: OpProps, Child: n, Keys: touched})
}

// Listen subscribes a direct listener; a nil handler removes it.
func (d *Document) Listen(node dom.Node, event string, handler func(*dom.Event)) {
	n := must(node)
	if handler == nil {
		delete(n.listeners, event)
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string]func(*dom.Event))
	}
	n.listeners[event] = handler
}

// Fire invokes the direct listener subscribed on node for event, if any,
// and reports whether one ran.
func (d *Document) Fire(node *Node, event string, data any) bool {
	handler, ok := node.listeners[event]
	if !ok {
		return false
	}
	handler(&dom.Event{Type: event, Target: node, CurrentTarget: node, Data: data})
	return true
}

func (d *Document) setProp(n *Node, key string, value any) {
	if key == InnerHTMLProp {
		n.attrs[key] = value
		setInnerHTML(n, innerHTML(value))
		return
	}
	if value == nil || value == false {
		delete(n.attrs, key)
		return
	}
	n.attrs[key] = value
}

func (d *Document) removeProp(n *Node, key string) {
	delete(n.attrs, key)
	if key == InnerHTMLProp {
		for _, c := range n.children {
			c.parent = nil
		}
		n.children = nil
	}
}

func innerHTML(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["__html"].(string)
		return s
	case map[string]string:
		return v["__html"]
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return ""
	}
	markup := rv.MapIndex(reflect.ValueOf("__html").Convert(rv.Type().Key()))
	if !markup.IsValid() {
		return ""
	}
	s, _ := markup.Interface().(string)
	return s
}

func asNode(node dom.Node) *Node {
	if node == nil {
		return nil
	}
	n, ok := node.(*Node)
	if !ok {
		panic(fmt.Sprintf("memory: foreign node %T", node))
	}
	return n
}

func must(node dom.Node) *Node {
	n := asNode(node)
	if n == nil {
		panic("memory: nil node")
	}
	return n
}

func describe(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case TextNode:
		return fmt.Sprintf("#text(%q)", n.Data)
	case CommentNode:
		return fmt.Sprintf("#comment(%q)", n.Data)
	default:
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(n.Tag)
		if id, ok := n.attrs["id"]; ok {
			fmt.Fprintf(&b, " id=%v", id)
		}
		b.WriteString(">")
		return b.String()
	}
}
