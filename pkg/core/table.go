package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// nodeState is the reconciler's side table entry for one host node.
type nodeState struct {
	// children are the flattened descriptors last rendered into the node.
	children []Node
	// layers maps stateless and component descriptor ids to what they
	// cached on this node. A node can host several layers when components
	// render other components or stateless functions at their root.
	layers map[uint64]layer
	// events maps normalized event names to handlers.
	events map[string]func(*dom.Event)
	// refOwner is the ref table the element ref was attached to.
	refOwner Refs
	root     *Root
}

type layer struct {
	rendered Node
	inst     *Base
}

func (s *nodeState) empty() bool {
	return len(s.children) == 0 && len(s.layers) == 0 && len(s.events) == 0 && s.root == nil
}

// state returns the entry for node, creating it.
func (r *Reconciler) state(node dom.Node) *nodeState {
	st, ok := r.table[node]
	if !ok {
		st = &nodeState{}
		r.table[node] = st
	}
	return st
}

func (r *Reconciler) setLayer(node dom.Node, id uint64, l layer) {
	st := r.state(node)
	if st.layers == nil {
		st.layers = make(map[uint64]layer)
	}
	st.layers[id] = l
}

// takeLayer removes and returns the layer cached under id.
func (r *Reconciler) takeLayer(node dom.Node, id uint64) (layer, bool) {
	st, ok := r.table[node]
	if !ok {
		return layer{}, false
	}
	l, ok := st.layers[id]
	delete(st.layers, id)
	return l, ok
}

// forget drops the entry for node.
func (r *Reconciler) forget(node dom.Node) {
	delete(r.table, node)
}

// migrate moves the layers still cached on from to to after from was
// replaced. Instances whose root moved are repointed at the new node, and a
// root handle follows its node.
func (r *Reconciler) migrate(from, to dom.Node) {
	if from == to {
		return
	}
	old, ok := r.table[from]
	if !ok {
		return
	}
	delete(r.table, from)
	if len(old.layers) == 0 && old.root == nil {
		return
	}
	st := r.state(to)
	for id, l := range old.layers {
		if _, exists := st.layers[id]; exists {
			continue
		}
		if st.layers == nil {
			st.layers = make(map[uint64]layer)
		}
		st.layers[id] = l
		if l.inst != nil {
			l.inst.cache.host = to
		}
	}
	if old.root != nil {
		st.root = old.root
		old.root.node = to
	}
}

// TrackedNodes returns the number of host nodes with side table entries.
func (r *Reconciler) TrackedNodes() int {
	return len(r.table)
}
