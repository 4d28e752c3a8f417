package core

// MountQueue holds instances whose subtree is attached but whose
// ComponentDidMount has not run yet. Instances are enqueued at the end of
// their own mount, so a child always precedes its ancestors.
type MountQueue struct {
	pending []*Base
}

func (q *MountQueue) enqueue(b *Base) {
	q.pending = append(q.pending, b)
}

// take returns the queued instances and empties the queue.
func (q *MountQueue) take() []*Base {
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of instances waiting for ComponentDidMount.
func (q *MountQueue) Len() int {
	return len(q.pending)
}

// flushMounts runs ComponentDidMount for every queued instance in enqueue
// order, then drains the state each of them queued while mounting. Callbacks
// whose state was folded into the first render run after that drain. Mounts
// caused by the drains are flushed in the same call.
func (r *Reconciler) flushMounts() error {
	if r.mounts.Len() == 0 {
		return nil
	}
	r.depth++
	defer func() { r.depth-- }()

	var first error
	for r.mounts.Len() > 0 {
		for _, b := range r.mounts.take() {
			if b.destroyed || b.unmounting {
				continue
			}
			if h, ok := b.self.(DidMounter); ok {
				h.ComponentDidMount()
			}
			if b.destroyed {
				continue
			}
			b.cache.mounted = true
			b.updater.isPending = false
			if err := b.updater.emitUpdate(nil, nil); err != nil && first == nil {
				first = err
			}
			if !b.destroyed {
				b.updater.runCallbacks()
			}
		}
	}
	return first
}
