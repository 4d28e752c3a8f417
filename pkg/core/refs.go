package core

// attachRef binds target to ref. String refs are stored in owner; func(any)
// refs are called with target.
func attachRef(ref any, owner Refs, target any) {
	switch ref := ref.(type) {
	case string:
		if ref != "" && owner != nil {
			owner[ref] = target
		}
	case func(any):
		if ref != nil {
			ref(target)
		}
	}
}

// detachRef undoes attachRef. A string ref is only removed when it still
// points at target, so a sibling that took over the key keeps it.
func detachRef(ref any, owner Refs, target any) {
	switch ref := ref.(type) {
	case string:
		if ref == "" || owner == nil {
			return
		}
		if cur, ok := owner[ref]; ok && cur == target {
			delete(owner, ref)
		}
	case func(any):
		if ref != nil {
			ref(nil)
		}
	}
}

// refChanged reports whether two ref values name different bindings.
// Function refs are never equal to each other.
func refChanged(a, b any) bool {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as != bs
	}
	return a != nil || b != nil
}
