package metrics

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// Mutation operation labels.
const (
	OpCreate  = "create"
	OpText    = "text"
	OpAppend  = "append"
	OpInsert  = "insert"
	OpRemove  = "remove"
	OpReplace = "replace"
	OpProps   = "props"
)

type host struct {
	dom.Host
	c *Collector
}

// listeningHost keeps the dom.Listener capability of the wrapped host visible
// to the reconciler.
type listeningHost struct {
	host
	l dom.Listener
}

func (h listeningHost) Listen(node dom.Node, event string, handler func(*dom.Event)) {
	h.l.Listen(node, event, handler)
}

// InstrumentHost wraps h so that every mutation is counted.
func (c *Collector) InstrumentHost(h dom.Host) dom.Host {
	wrapped := host{Host: h, c: c}
	if l, ok := h.(dom.Listener); ok {
		return listeningHost{host: wrapped, l: l}
	}
	return wrapped
}

func (h host) inc(op string) {
	h.c.mutations.WithLabelValues(op).Inc()
}

func (h host) CreateElement(tag, namespace string) dom.Node {
	h.inc(OpCreate)
	return h.Host.CreateElement(tag, namespace)
}

func (h host) CreateText(text string) dom.Node {
	h.inc(OpCreate)
	return h.Host.CreateText(text)
}

func (h host) CreateComment(text string) dom.Node {
	h.inc(OpCreate)
	return h.Host.CreateComment(text)
}

func (h host) SetText(node dom.Node, text string) {
	h.inc(OpText)
	h.Host.SetText(node, text)
}

func (h host) AppendChild(parent, child dom.Node) {
	h.inc(OpAppend)
	h.Host.AppendChild(parent, child)
}

func (h host) InsertBefore(parent, child, ref dom.Node) {
	h.inc(OpInsert)
	h.Host.InsertBefore(parent, child, ref)
}

func (h host) RemoveChild(parent, child dom.Node) {
	h.inc(OpRemove)
	h.Host.RemoveChild(parent, child)
}

func (h host) ReplaceChild(parent, newChild, oldChild dom.Node) {
	h.inc(OpReplace)
	h.Host.ReplaceChild(parent, newChild, oldChild)
}

func (h host) PatchProps(node dom.Node, oldProps, newProps map[string]any) {
	h.inc(OpProps)
	h.Host.PatchProps(node, oldProps, newProps)
}
