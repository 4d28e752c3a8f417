package core

// filterContext returns the subset of ctx named by types. Without declared
// types the result is empty.
func filterContext(ctx Context, types []string) Context {
	out := make(Context, len(types))
	for _, k := range types {
		if v, ok := ctx[k]; ok {
			out[k] = v
		}
	}
	return out
}

// mergeContext returns a copy of parent overlaid with child. parent is
// returned as is when child is empty.
func mergeContext(parent, child Context) Context {
	if len(child) == 0 {
		return parent
	}
	out := make(Context, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}
