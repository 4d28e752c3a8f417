package core

// Lifecycle hooks are optional. The reconciler discovers them by interface
// assertion on the instance returned by ComponentType.New.

// InitialStateGetter supplies the initial state once props and context are set.
type InitialStateGetter interface {
	GetInitialState() State
}

// WillMounter runs before the first render. State requested during the hook
// is folded into the initial state without an extra render.
type WillMounter interface {
	ComponentWillMount()
}

// DidMounter runs after the whole tree of the outermost pass is attached.
// A child's hook always runs before its ancestors'.
type DidMounter interface {
	ComponentDidMount()
}

// WillReceivePropser runs when a parent re-renders the component. Updates
// requested during the hook are queued, not rendered.
type WillReceivePropser interface {
	ComponentWillReceiveProps(nextProps Props, nextContext Context)
}

// ShouldUpdater can veto a render. Returning false commits the next props,
// state and context without touching the host tree.
type ShouldUpdater interface {
	ShouldComponentUpdate(nextProps Props, nextState State, nextContext Context) bool
}

// WillUpdater runs before an update is committed.
type WillUpdater interface {
	ComponentWillUpdate(nextProps Props, nextState State, nextContext Context)
}

// DidUpdater runs after the host tree reflects the update.
type DidUpdater interface {
	ComponentDidUpdate(prevProps Props, prevState State, prevContext Context)
}

// WillUnmounter runs before the component's subtree is destroyed. SetState,
// ReplaceState and ForceUpdate are already no-ops at that point.
type WillUnmounter interface {
	ComponentWillUnmount()
}

// ChildContextProvider contributes keys to the context of the subtree.
type ChildContextProvider interface {
	GetChildContext() Context
}
