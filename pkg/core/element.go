package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// hasInnerHTML reports whether props inject raw markup. Such elements own
// their content, so descriptor children are ignored.
func hasInnerHTML(props Props) bool {
	v, ok := props[InnerHTMLProp]
	return ok && v != nil
}

func elementChildren(el *Element) []Node {
	if hasInnerHTML(el.Props) {
		return nil
	}
	return el.Children
}

func (r *Reconciler) mountElement(el *Element, ctx Context, owner Refs, ns string) (dom.Node, error) {
	if el.Tag == "svg" || ns == dom.SVGNamespace {
		ns = dom.SVGNamespace
	}
	node := r.host.CreateElement(el.Tag, ns)
	children := elementChildren(el)
	st := r.state(node)
	st.children = children
	for _, c := range children {
		child, err := r.mount(c, ctx, owner, ns)
		if err != nil {
			return node, err
		}
		r.host.AppendChild(node, child)
	}
	attrs, events := splitProps(el.Props)
	r.host.ApplyProps(node, attrs)
	r.bindEvents(node, events)
	if el.Ref != nil {
		st.refOwner = owner
		attachRef(el.Ref, owner, node)
	}
	return node, nil
}

func (r *Reconciler) updateElement(old, next *Element, node dom.Node, ctx Context, owner Refs) (dom.Node, error) {
	st := r.state(node)
	oldChildren := st.children
	children := elementChildren(next)
	st.children = children
	oldAttrs, _ := splitProps(old.Props)
	attrs, events := splitProps(next.Props)

	if !hasInnerHTML(old.Props) && len(oldChildren) > 0 {
		if err := r.diffChildren(node, oldChildren, children, ctx, owner); err != nil {
			return node, err
		}
		r.host.PatchProps(node, oldAttrs, attrs)
	} else {
		// Patch first so replaced markup is cleared before children land.
		r.host.PatchProps(node, oldAttrs, attrs)
		ns := r.host.Namespace(node)
		for _, c := range children {
			child, err := r.mount(c, ctx, owner, ns)
			if err != nil {
				return node, err
			}
			r.host.AppendChild(node, child)
		}
	}
	r.bindEvents(node, events)

	if old.Ref != nil && (next.Ref == nil || refChanged(old.Ref, next.Ref)) {
		detachRef(old.Ref, st.refOwner, node)
		st.refOwner = nil
	}
	if next.Ref != nil {
		st.refOwner = owner
		attachRef(next.Ref, owner, node)
	}
	return node, nil
}

// diffChildren reconciles the children of parent in a single pass. Each old
// child claims the first unclaimed new child describing the same logical
// node; unclaimed old children are destroyed and removed. Survivors are then
// updated and moved with at most one InsertBefore each, and new children are
// mounted in place.
func (r *Reconciler) diffChildren(parent dom.Node, old, next []Node, ctx Context, owner Refs) error {
	oldNodes := make([]dom.Node, len(old))
	for i := range old {
		oldNodes[i] = r.host.ChildAt(parent, i)
	}

	type match struct {
		desc Node
		node dom.Node
	}
	matches := make([]*match, len(next))
	var removed []dom.Node
outer:
	for i, o := range old {
		for j, n := range next {
			if matches[j] != nil {
				continue
			}
			if sameNode(o, n) {
				matches[j] = &match{desc: o, node: oldNodes[i]}
				continue outer
			}
		}
		r.destroy(o, oldNodes[i])
		removed = append(removed, oldNodes[i])
	}
	for _, n := range removed {
		r.host.RemoveChild(parent, n)
		r.forget(n)
	}

	ns := r.host.Namespace(parent)
	for i, n := range next {
		m := matches[i]
		if m == nil {
			child, err := r.mount(n, ctx, owner, ns)
			if err != nil {
				return err
			}
			r.host.InsertBefore(parent, child, r.host.ChildAt(parent, i))
			continue
		}
		child := m.node
		if n != m.desc {
			var err error
			child, err = r.update(m.desc, n, child, ctx, owner)
			if err != nil {
				return err
			}
		}
		if cur := r.host.ChildAt(parent, i); cur != child {
			r.log.V(2).Info("move child", "node", describe(n), "index", i)
			r.host.InsertBefore(parent, child, cur)
		}
	}
	return nil
}

// destroyElement tears down the subtree below node. The entry of node
// itself is kept so layers of the components rendering it stay reachable;
// whoever removes node forgets it.
func (r *Reconciler) destroyElement(el *Element, node dom.Node) {
	st, ok := r.table[node]
	if !ok {
		return
	}
	for i, c := range st.children {
		child := r.host.ChildAt(node, i)
		if child == nil {
			continue
		}
		r.destroy(c, child)
		r.forget(child)
	}
	if el.Ref != nil {
		detachRef(el.Ref, st.refOwner, node)
	}
	r.clearEvents(node, st)
	st.children = nil
	st.refOwner = nil
}
