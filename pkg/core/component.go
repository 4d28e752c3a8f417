package core

import (
	"fmt"
	"time"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/errors"
)

func (r *Reconciler) mountComponent(n *ComponentNode, ctx Context, owner Refs, ns string) (dom.Node, error) {
	typ := n.Type
	self := typ.New()
	b := self.base()
	b.init(r, self, typ, n.Props, filterContext(ctx, typ.ContextTypes))
	b.cache.parentContext = ctx
	u := b.updater
	u.isPending = true

	if g, ok := self.(InitialStateGetter); ok {
		if s := g.GetInitialState(); s != nil {
			b.state = s
		}
	}
	r.checkPropTypes(b, b.props)
	if h, ok := self.(WillMounter); ok {
		h.ComponentWillMount()
	}
	b.state = u.resolveState(b.props)

	rendered, childCtx, err := r.renderComponent(b)
	if err != nil {
		u.isPending = false
		return nil, err
	}
	node, err := r.mount(rendered, childCtx, b.refs, ns)
	if err != nil {
		u.isPending = false
		return node, err
	}
	r.setLayer(node, n.id, layer{inst: b})
	b.cache.rendered = rendered
	b.cache.host = node
	r.mounts.enqueue(b)
	if n.Ref != nil {
		b.cache.refOwner = owner
		attachRef(n.Ref, owner, self)
	}
	r.observer.ComponentMounted(b.name())
	r.log.V(1).Info("mount component", "component", b.name(), "id", n.id)
	return node, nil
}

// updateComponent handles a parent-driven update. The instance moves to the
// new descriptor id; whether it re-renders is up to the updater.
func (r *Reconciler) updateComponent(old, next *ComponentNode, node dom.Node, ctx Context, owner Refs) (dom.Node, error) {
	l, ok := r.takeLayer(node, old.id)
	if !ok || l.inst == nil {
		panic(fmt.Sprintf("core: no instance of %s cached on host node", old.Type.displayName()))
	}
	b := l.inst
	r.setLayer(node, next.id, l)
	b.cache.parentContext = ctx
	nextCtx := filterContext(ctx, b.typ.ContextTypes)

	u := b.updater
	if h, ok := b.self.(WillReceivePropser); ok {
		was := u.isPending
		u.isPending = true
		h.ComponentWillReceiveProps(next.Props, nextCtx)
		u.isPending = was
	}
	err := u.emitUpdate(next.Props, nextCtx)

	if old.Ref != nil && (next.Ref == nil || refChanged(old.Ref, next.Ref)) {
		detachRef(old.Ref, b.cache.refOwner, b.self)
		b.cache.refOwner = nil
	}
	if next.Ref != nil {
		b.cache.refOwner = owner
		attachRef(next.Ref, owner, b.self)
	}
	if b.cache.host == nil {
		return node, err
	}
	return b.cache.host, err
}

// shouldUpdate is the update gate. While an update of b is in flight the
// request is parked in the pending cache and picked up by the drain that
// follows it. The in-flight span starts before ShouldComponentUpdate, so
// state set from inside the hook is queued rather than rendered.
func (r *Reconciler) shouldUpdate(b *Base, props Props, state State, ctx Context) error {
	u := b.updater
	if u.isPending {
		b.setPending(props, state, ctx)
		return nil
	}
	u.isPending = true
	if h, ok := b.self.(ShouldUpdater); ok && !h.ShouldComponentUpdate(props, state, ctx) {
		b.takePending()
		b.commit(props, state, ctx)
		u.runCallbacks()
		u.isPending = false
		r.observer.ComponentUpdated(b.name(), false, 0)
		return u.emitUpdate(nil, nil)
	}
	b.setPending(props, state, ctx)
	return r.performUpdate(b)
}

// forceUpdate renders b with its pending props, state and context and
// diffs the result into the host tree.
func (r *Reconciler) forceUpdate(b *Base) error {
	u := b.updater
	if u.isPending || b.unmounting || b.destroyed {
		return nil
	}
	u.isPending = true
	return r.performUpdate(b)
}

// performUpdate runs one update of b. The caller has marked the update in
// flight.
func (r *Reconciler) performUpdate(b *Base) error {
	u := b.updater
	if b.unmounting || b.destroyed {
		u.isPending = false
		return nil
	}
	start := time.Now()
	prevProps, prevState, prevCtx := b.props, b.state, b.context
	props, state, ctx := b.takePending()
	r.checkPropTypes(b, props)
	if h, ok := b.self.(WillUpdater); ok {
		h.ComponentWillUpdate(props, state, ctx)
	}
	b.commit(props, state, ctx)

	err := r.pass(func() error {
		rendered, childCtx, err := r.renderComponent(b)
		if err != nil {
			return err
		}
		node, err := r.diff(b.cache.rendered, rendered, b.cache.host, childCtx, b.refs)
		b.cache.rendered = rendered
		if node != nil {
			b.cache.host = node
		}
		return err
	})
	if err != nil {
		u.isPending = false
		return err
	}
	if h, ok := b.self.(DidUpdater); ok {
		h.ComponentDidUpdate(prevProps, prevState, prevCtx)
	}
	u.runCallbacks()
	u.isPending = false
	r.observer.ComponentUpdated(b.name(), true, time.Since(start))
	return u.emitUpdate(nil, nil)
}

func (r *Reconciler) destroyComponent(n *ComponentNode, node dom.Node) {
	l, ok := r.takeLayer(node, n.id)
	if !ok || l.inst == nil {
		return
	}
	b := l.inst
	if n.Ref != nil {
		detachRef(n.Ref, b.cache.refOwner, b.self)
	}
	b.unmounting = true
	if h, ok := b.self.(WillUnmounter); ok {
		h.ComponentWillUnmount()
	}
	if b.cache.rendered != nil {
		r.destroy(b.cache.rendered, node)
	}
	name := b.name()
	b.release()
	r.observer.ComponentUnmounted(name)
	r.log.V(1).Info("unmount component", "component", name, "id", n.id)
}

// renderComponent runs the instance's render and computes the context of
// its subtree.
func (r *Reconciler) renderComponent(b *Base) (Node, Context, error) {
	name := b.name()
	var out any
	var child Context
	err := safeRender(name, func() {
		out = b.self.Render()
		if p, ok := b.self.(ChildContextProvider); ok {
			child = p.GetChildContext()
		}
	})
	if err != nil {
		r.observer.RenderFailed(name)
		return nil, nil, err
	}
	rendered, err := r.normalize(out, name, nextID())
	if err != nil {
		r.observer.RenderFailed(name)
		return nil, nil, err
	}
	ctx := mergeContext(b.cache.parentContext, child)
	b.cache.childContext = ctx
	return rendered, ctx, nil
}

// safeRender runs fn, converting a panic into a *errors.RenderError.
func safeRender(name string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			rerr := &errors.RenderError{
				Component:  name,
				Phase:      "render",
				Err:        errors.ErrRenderPanic,
				Recovered:  rec,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.ReportRender(rerr)
			err = rerr
		}
	}()
	fn()
	return nil
}

// normalize turns a render result into a descriptor. nil and false become
// a placeholder comment so the position is kept; strings and numbers become
// text.
func (r *Reconciler) normalize(out any, name string, id uint64) (Node, error) {
	switch v := out.(type) {
	case nil:
		return r.placeholder(id), nil
	case bool:
		if !v {
			return r.placeholder(id), nil
		}
	case Node:
		if isNilNode(v) {
			return r.placeholder(id), nil
		}
		return v, nil
	case string:
		return Text(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Text(fmt.Sprint(v)), nil
	}
	err := &errors.RenderError{
		Component: name,
		Phase:     "render",
		Err:       errors.ErrInvalidRenderResult,
		Result:    fmt.Sprintf("%T", out),
		Timestamp: time.Now(),
	}
	errors.ReportRender(err)
	return nil, err
}

func (r *Reconciler) placeholder(id uint64) Comment {
	return Comment(fmt.Sprintf("%s: %d", r.placeholderPrefix, id))
}

// checkPropTypes runs the declared validators in debug mode. Failures are
// logged, never returned.
func (r *Reconciler) checkPropTypes(b *Base, props Props) {
	if !r.debug || len(b.typ.PropTypes) == 0 {
		return
	}
	name := b.name()
	for prop, validate := range b.typ.PropTypes {
		if validate == nil {
			continue
		}
		if err := validate(props, prop, name); err != nil {
			r.log.Info("failed prop type", "component", name, "prop", prop, "error", err.Error())
		}
	}
}
