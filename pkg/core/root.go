package core

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/go-drift/vdom/pkg/dom"
)

// Root is a tree rendered into a container node.
type Root struct {
	id        uuid.UUID
	r         *Reconciler
	container dom.Node
	tree      Node
	node      dom.Node
}

// ID identifies the root in logs.
func (rt *Root) ID() uuid.UUID { return rt.id }

// Container returns the node the root renders into.
func (rt *Root) Container() dom.Node { return rt.container }

// Node returns the host node currently rendered for the root descriptor,
// or nil after Unmount.
func (rt *Root) Node() dom.Node { return rt.node }

// Tree returns the descriptor last rendered.
func (rt *Root) Tree() Node { return rt.tree }

// Render renders n into container. A container that already holds a root
// is updated in place and keeps its Root.
func (r *Reconciler) Render(n Node, container dom.Node) (*Root, error) {
	if rt, ok := r.roots[container]; ok {
		return rt, rt.Update(n)
	}
	rt := &Root{id: uuid.New(), r: r, container: container}
	r.roots[container] = rt
	if isNilNode(n) {
		return rt, nil
	}
	end := r.span("vdom.Render", attribute.String("vdom.root", rt.id.String()), attribute.String("vdom.node", describe(n)))
	err := r.pass(func() error {
		ns := r.host.Namespace(container)
		node, err := r.mount(n, nil, nil, ns)
		if node == nil {
			return err
		}
		r.host.AppendChild(container, node)
		rt.tree, rt.node = n, node
		r.state(node).root = rt
		return err
	})
	end(err)
	r.log.V(1).Info("render root", "root", rt.id, "node", describe(n))
	return rt, err
}

// Update diffs the root against n. A nil n unmounts the tree but keeps the
// container registered.
func (rt *Root) Update(n Node) (err error) {
	r := rt.r
	if rt.node == nil && isNilNode(n) {
		return nil
	}
	end := r.span("vdom.Root.Update", attribute.String("vdom.root", rt.id.String()))
	defer func() { end(err) }()
	if rt.node == nil {
		return r.pass(func() error {
			node, err := r.mount(n, nil, nil, r.host.Namespace(rt.container))
			if node == nil {
				return err
			}
			r.host.AppendChild(rt.container, node)
			rt.tree, rt.node = n, node
			r.state(node).root = rt
			return err
		})
	}
	return r.pass(func() error {
		node, err := r.diff(rt.tree, n, rt.node, nil, nil)
		if isNilNode(n) {
			rt.tree, rt.node = nil, nil
			return err
		}
		rt.tree = n
		if node != nil {
			rt.node = node
			r.state(node).root = rt
		}
		return err
	})
}

// Unmount destroys the tree, removes it from the container and releases
// the container.
func (rt *Root) Unmount() {
	r := rt.r
	if rt.node != nil {
		end := r.span("vdom.Root.Unmount", attribute.String("vdom.root", rt.id.String()))
		r.destroy(rt.tree, rt.node)
		r.host.RemoveChild(rt.container, rt.node)
		r.forget(rt.node)
		end(nil)
		r.log.V(1).Info("unmount root", "root", rt.id)
	}
	rt.tree, rt.node = nil, nil
	delete(r.roots, rt.container)
}

// RootOf returns the root registered for container.
func (r *Reconciler) RootOf(container dom.Node) (*Root, bool) {
	rt, ok := r.roots[container]
	return rt, ok
}
