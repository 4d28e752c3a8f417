package core

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
)

// eventAliases maps prop names whose event name is not the lowercased suffix.
var eventAliases = map[string]string{
	"onDoubleClick": "dblclick",
}

// nonBubbling lists events that only reach their target. Handlers for them
// are also subscribed directly on the host node when the host supports it.
var nonBubbling = map[string]bool{
	"mouseenter": true,
	"mouseleave": true,
	"focus":      true,
	"blur":       true,
	"load":       true,
	"unload":     true,
	"scroll":     true,
	"error":      true,
	"abort":      true,
	"resize":     true,
}

// isEventKey reports whether key names an event prop: "on" followed by an
// upper case letter.
func isEventKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on") && key[2] >= 'A' && key[2] <= 'Z'
}

// eventName normalizes a prop key or event name, so "onClick" and "click"
// both yield "click".
func eventName(key string) string {
	if alias, ok := eventAliases[key]; ok {
		return alias
	}
	if isEventKey(key) {
		return strings.ToLower(key[2:])
	}
	return strings.ToLower(key)
}

// eventHandler converts a prop value into a handler. ok is false when the
// value is not a function the event table accepts.
func eventHandler(v any) (func(*dom.Event), bool) {
	switch fn := v.(type) {
	case func(*dom.Event):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(*dom.Event) { fn() }, true
	default:
		return nil, false
	}
}

// splitProps separates event handlers from host properties.
func splitProps(props Props) (attrs map[string]any, events map[string]func(*dom.Event)) {
	attrs = make(map[string]any, len(props))
	for k, v := range props {
		if isEventKey(k) {
			if h, ok := eventHandler(v); ok {
				if events == nil {
					events = make(map[string]func(*dom.Event))
				}
				events[eventName(k)] = h
				continue
			}
		}
		attrs[k] = v
	}
	return attrs, events
}

// bindEvents replaces the event table of node.
func (r *Reconciler) bindEvents(node dom.Node, events map[string]func(*dom.Event)) {
	st := r.state(node)
	if r.listener != nil {
		for name := range st.events {
			if _, ok := events[name]; !ok && nonBubbling[name] {
				r.listener.Listen(node, name, nil)
			}
		}
		for name, h := range events {
			if nonBubbling[name] {
				r.listener.Listen(node, name, h)
			}
		}
	}
	st.events = events
}

// clearEvents drops every handler of node, including direct subscriptions.
func (r *Reconciler) clearEvents(node dom.Node, st *nodeState) {
	if r.listener != nil {
		for name := range st.events {
			if nonBubbling[name] {
				r.listener.Listen(node, name, nil)
			}
		}
	}
	st.events = nil
}

// Dispatch delivers an event to target. Bubbling events then visit each
// host ancestor until a handler calls StopPropagation. State updates made
// by handlers are batched and rendered once the event has been delivered.
// A handler panic stops delivery and is returned as *errors.PanicError.
func (r *Reconciler) Dispatch(target dom.Node, name string, data any) (err error) {
	name = eventName(name)
	end := r.span("vdom.Dispatch", attribute.String("vdom.event", name))
	defer func() { end(err) }()
	ev := &dom.Event{Type: name, Target: target, Data: data}
	var herr error
	err = r.Batch(func() {
		for node := target; node != nil; node = r.host.Parent(node) {
			if st, ok := r.table[node]; ok {
				if h := st.events[name]; h != nil {
					ev.CurrentTarget = node
					if herr = invoke(h, ev); herr != nil {
						return
					}
				}
			}
			if ev.Stopped() || nonBubbling[name] {
				return
			}
		}
	})
	if herr != nil {
		return herr
	}
	return err
}

func invoke(h func(*dom.Event), ev *dom.Event) error {
	return errors.Guard("core.Dispatch("+ev.Type+")", func() { h(ev) })
}
