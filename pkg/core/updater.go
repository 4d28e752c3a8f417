package core

// statePatch is one queued state change.
type statePatch struct {
	merge State
	fn    func(State, Props) State
	// replace discards the running state before this patch is applied.
	replace bool
}

func toPatch(patch any) (statePatch, bool) {
	switch p := patch.(type) {
	case nil:
		return statePatch{}, false
	case State:
		if p == nil {
			return statePatch{}, false
		}
		return statePatch{merge: p}, true
	case map[string]any:
		if p == nil {
			return statePatch{}, false
		}
		return statePatch{merge: State(p)}, true
	case func(State, Props) State:
		if p == nil {
			return statePatch{}, false
		}
		return statePatch{fn: p}, true
	default:
		return statePatch{}, false
	}
}

// updater owns the state and callback queues of one instance.
//
// isPending is true exactly while a render of the instance is in progress
// (including the span from mount until ComponentDidMount). While it is set,
// update requests only enqueue.
type updater struct {
	inst             *Base
	pendingStates    []statePatch
	pendingCallbacks []func()
	isPending        bool
	// forced marks a ForceUpdate deferred by Batch.
	forced bool
}

// addState queues patch and renders immediately unless a render is pending
// or the reconciler is batching.
func (u *updater) addState(patch statePatch) error {
	u.pendingStates = append(u.pendingStates, patch)
	return u.schedule()
}

// replaceState drops the patches queued so far and queues patch as a hard
// replacement.
func (u *updater) replaceState(patch statePatch) error {
	patch.replace = true
	u.pendingStates = append(u.pendingStates[:0], patch)
	return u.schedule()
}

func (u *updater) schedule() error {
	if u.isPending {
		return nil
	}
	if r := u.inst.r; r.batching {
		r.markDirty(u)
		return nil
	}
	return u.emitUpdate(nil, nil)
}

// emitUpdate runs an update when there are new props, queued state or a
// coalesced pending update. nil props and context keep the current values.
func (u *updater) emitUpdate(nextProps Props, nextContext Context) error {
	b := u.inst
	if b.destroyed {
		return nil
	}
	if nextProps == nil && len(u.pendingStates) == 0 && !b.cache.hasPending {
		return nil
	}
	props, ctx := u.inputs(nextProps, nextContext)
	return b.r.shouldUpdate(b, props, u.resolveState(props), ctx)
}

// flush runs the work a batch deferred for u. A deferred ForceUpdate renders
// even when nothing is queued and skips ShouldComponentUpdate.
func (u *updater) flush() error {
	if !u.forced {
		return u.emitUpdate(nil, nil)
	}
	u.forced = false
	b := u.inst
	if b.destroyed || u.isPending {
		return nil
	}
	props, ctx := u.inputs(nil, nil)
	b.setPending(props, u.resolveState(props), ctx)
	return b.r.forceUpdate(b)
}

// inputs returns the props and context of the next update. nil arguments
// fall back to the coalesced pending values, then to the committed ones.
func (u *updater) inputs(nextProps Props, nextContext Context) (Props, Context) {
	b := u.inst
	props, ctx := nextProps, nextContext
	if props == nil {
		props = b.props
		if b.cache.hasPending && b.cache.pendingProps != nil {
			props = b.cache.pendingProps
		}
	}
	if ctx == nil {
		ctx = b.context
		if b.cache.hasPending && b.cache.pendingContext != nil {
			ctx = b.cache.pendingContext
		}
	}
	return props, ctx
}

// resolveState folds the queue over the current (or pending) state and
// clears it. With an empty queue it returns the state unchanged.
func (u *updater) resolveState(props Props) State {
	b := u.inst
	state := b.state
	if b.cache.hasPending && b.cache.pendingState != nil {
		state = b.cache.pendingState
	}
	if len(u.pendingStates) == 0 {
		return state
	}
	if props == nil {
		props = b.props
	}
	for _, p := range u.pendingStates {
		if p.replace {
			state = nil
		}
		next := p.merge
		if p.fn != nil {
			next = p.fn(state, props)
		}
		state = mergeState(state, next)
	}
	u.pendingStates = u.pendingStates[:0]
	return state
}

// addCallback queues fn; nil callbacks are dropped.
func (u *updater) addCallback(fn func()) {
	if fn != nil {
		u.pendingCallbacks = append(u.pendingCallbacks, fn)
	}
}

// runCallbacks invokes the queued callbacks once each, in order. Callbacks
// queued while running are kept for the next update.
func (u *updater) runCallbacks() {
	if len(u.pendingCallbacks) == 0 {
		return
	}
	callbacks := u.pendingCallbacks
	u.pendingCallbacks = nil
	for _, fn := range callbacks {
		fn()
	}
}

func mergeState(state, patch State) State {
	out := make(State, len(state)+len(patch))
	for k, v := range state {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
