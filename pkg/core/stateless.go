package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

func (r *Reconciler) mountStateless(n *StatelessNode, ctx Context, owner Refs, ns string) (dom.Node, error) {
	rendered, err := r.renderStateless(n, ctx)
	if err != nil {
		return nil, err
	}
	node, err := r.mount(rendered, ctx, owner, ns)
	if err != nil {
		return node, err
	}
	r.setLayer(node, n.id, layer{rendered: rendered})
	return node, nil
}

// updateStateless re-renders on every parent update; stateless functions
// have no way to skip.
func (r *Reconciler) updateStateless(old, next *StatelessNode, node dom.Node, ctx Context, owner Refs) (dom.Node, error) {
	prev, _ := r.takeLayer(node, old.id)
	rendered, err := r.renderStateless(next, ctx)
	if err != nil {
		r.setLayer(node, old.id, prev)
		return node, err
	}
	newNode, err := r.diff(prev.rendered, rendered, node, ctx, owner)
	if err != nil {
		return newNode, err
	}
	r.setLayer(newNode, next.id, layer{rendered: rendered})
	return newNode, nil
}

func (r *Reconciler) destroyStateless(n *StatelessNode, node dom.Node) {
	l, ok := r.takeLayer(node, n.id)
	if !ok || l.rendered == nil {
		return
	}
	r.destroy(l.rendered, node)
}

func (r *Reconciler) renderStateless(n *StatelessNode, ctx Context) (Node, error) {
	name := n.Func.displayName()
	var out any
	err := safeRender(name, func() {
		out = n.Func.Render(n.Props, filterContext(ctx, n.Func.ContextTypes))
	})
	if err != nil {
		r.observer.RenderFailed(name)
		return nil, err
	}
	rendered, err := r.normalize(out, name, n.id)
	if err != nil {
		r.observer.RenderFailed(name)
		return nil, err
	}
	return rendered, nil
}
