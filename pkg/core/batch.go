package core

import (
	"slices"

	"github.com/go-drift/vdom/pkg/dom"
)

// Batch runs fn with state updates deferred: every SetState or ForceUpdate
// made during fn only enqueues, and each affected instance renders once when
// fn returns.
// Instances closer to the root render first, so a child that its parent
// re-renders with new props folds its own queue into that render.
func (r *Reconciler) Batch(fn func()) error {
	if r.batching {
		fn()
		return nil
	}
	r.batching = true
	func() {
		defer func() { r.batching = false }()
		fn()
	}()
	return r.flushDirty()
}

// markDirty records u for the flush at the end of the current batch.
func (r *Reconciler) markDirty(u *updater) {
	if slices.Contains(r.dirty, u) {
		return
	}
	r.dirty = append(r.dirty, u)
}

// flushDirty renders the dirty instances in depth order until no more are
// scheduled.
func (r *Reconciler) flushDirty() error {
	return r.pass(func() error {
		for len(r.dirty) > 0 {
			dirty := r.dirty
			r.dirty = nil
			slices.SortStableFunc(dirty, func(a, b *updater) int {
				return r.hostDepth(a.inst.cache.host) - r.hostDepth(b.inst.cache.host)
			})
			for i, u := range dirty {
				if err := u.flush(); err != nil {
					for _, rest := range append(dirty[i+1:], r.dirty...) {
						rest.forced = false
					}
					r.dirty = nil
					return err
				}
			}
		}
		return nil
	})
}

func (r *Reconciler) hostDepth(node dom.Node) int {
	depth := 0
	for node != nil {
		node = r.host.Parent(node)
		depth++
	}
	return depth
}
