package core

import (
	"github.com/go-drift/vdom/pkg/dom"
)

// Component is a stateful component instance. Implementations embed Base
// and provide Render; lifecycle hooks are optional (see hooks.go).
//
//	type counter struct {
//	    core.Base
//	}
//
//	func (c *counter) GetInitialState() core.State { return core.State{"n": 0} }
//
//	func (c *counter) Render() any {
//	    return core.H("span", nil, c.State()["n"])
//	}
type Component interface {
	// Render returns a descriptor, text, or nil/false for an empty position.
	Render() any
	base() *Base
}

// Base holds the reconciler-managed fields of a component instance.
// Embed it in your component struct.
//
// Base is NOT thread-safe. Its methods must only be called from the goroutine
// that drives the reconciler.
type Base struct {
	props   Props
	state   State
	context Context
	refs    Refs

	typ     *ComponentType
	self    Component
	r       *Reconciler
	updater *updater
	cache   instanceCache

	// unmounting turns the update methods into no-ops.
	unmounting bool
	destroyed  bool
}

type instanceCache struct {
	mounted       bool
	parentContext Context
	childContext  Context

	hasPending     bool
	pendingProps   Props
	pendingState   State
	pendingContext Context

	rendered Node
	host     dom.Node
	refOwner Refs
}

func (b *Base) base() *Base { return b }

func (b *Base) init(r *Reconciler, self Component, typ *ComponentType, props Props, ctx Context) {
	b.r = r
	b.self = self
	b.typ = typ
	b.props = props
	b.state = State{}
	b.context = ctx
	b.refs = Refs{}
	b.updater = &updater{inst: b}
}

// Props returns the committed props.
func (b *Base) Props() Props { return b.props }

// State returns the committed state.
func (b *Base) State() State { return b.state }

// Context returns the committed context, filtered by the type's ContextTypes.
func (b *Base) Context() Context { return b.context }

// Refs returns the refs attached by descriptors this component rendered.
func (b *Base) Refs() Refs { return b.refs }

// IsMounted reports whether ComponentDidMount has run and the instance has
// not been unmounted since.
func (b *Base) IsMounted() bool { return b.cache.mounted }

// Type returns the component type the instance was created from.
func (b *Base) Type() *ComponentType { return b.typ }

// DOMNode returns the host node the component currently renders into.
func (b *Base) DOMNode() dom.Node { return b.cache.host }

// SetState queues a state patch and, unless a render of this instance is in
// progress or updates are batched, re-renders synchronously. patch is a State
// (or map[string]any) merged shallowly, or a func(State, Props) State whose
// result is merged. A nil patch is a no-op. callback runs once after the
// update completes.
func (b *Base) SetState(patch any, callback func()) error {
	if b.updater == nil || b.unmounting {
		return nil
	}
	b.updater.addCallback(callback)
	p, ok := toPatch(patch)
	if !ok {
		return nil
	}
	return b.updater.addState(p)
}

// ReplaceState queues a patch that discards the state accumulated so far,
// so the resolved state is exactly patch.
func (b *Base) ReplaceState(patch any, callback func()) error {
	if b.updater == nil || b.unmounting {
		return nil
	}
	b.updater.addCallback(callback)
	p, ok := toPatch(patch)
	if !ok {
		p = statePatch{merge: State{}}
	}
	return b.updater.replaceState(p)
}

// ForceUpdate re-renders without consulting ShouldComponentUpdate. Inside
// Batch the render is deferred to the end of the batch like SetState.
func (b *Base) ForceUpdate(callback func()) error {
	if b.updater == nil || b.unmounting {
		return nil
	}
	u := b.updater
	u.addCallback(callback)
	if b.r.batching && !u.isPending {
		u.forced = true
		b.r.markDirty(u)
		return nil
	}
	return b.r.forceUpdate(b)
}

func (b *Base) name() string {
	return b.typ.displayName()
}

// commit makes the next props, state and context current.
func (b *Base) commit(props Props, state State, ctx Context) {
	b.props = props
	b.state = state
	if ctx == nil {
		ctx = Context{}
	}
	b.context = ctx
}

func (b *Base) setPending(props Props, state State, ctx Context) {
	b.cache.hasPending = true
	b.cache.pendingProps = props
	b.cache.pendingState = state
	b.cache.pendingContext = ctx
}

// takePending returns and clears the pending update, defaulting to the
// committed values.
func (b *Base) takePending() (Props, State, Context) {
	props, state, ctx := b.props, b.state, b.context
	if b.cache.hasPending {
		if b.cache.pendingProps != nil {
			props = b.cache.pendingProps
		}
		if b.cache.pendingState != nil {
			state = b.cache.pendingState
		}
		if b.cache.pendingContext != nil {
			ctx = b.cache.pendingContext
		}
	}
	b.cache.hasPending = false
	b.cache.pendingProps, b.cache.pendingState, b.cache.pendingContext = nil, nil, nil
	return props, state, ctx
}

// release drops every reference to host nodes, context and state.
func (b *Base) release() {
	b.destroyed = true
	b.cache = instanceCache{}
	b.state = nil
	b.context = nil
	b.refs = nil
	if b.updater != nil {
		b.updater.pendingStates = nil
		b.updater.pendingCallbacks = nil
	}
}
