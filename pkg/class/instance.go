package class

import (
	"fmt"

	"github.com/go-drift/vdom/pkg/core"
)

// Instance is the component instance of every class-built type. It
// implements all lifecycle hooks and forwards them to the composed spec.
type Instance struct {
	core.Base

	class *compiled
	// initializing is set while the GetInitialState functions run; state
	// updates requested then are dropped.
	initializing bool
}

var (
	_ core.Component            = (*Instance)(nil)
	_ core.InitialStateGetter   = (*Instance)(nil)
	_ core.ShouldUpdater        = (*Instance)(nil)
	_ core.ChildContextProvider = (*Instance)(nil)
)

// GetInitialState merges the results of every GetInitialState in mixin
// order.
func (c *Instance) GetInitialState() core.State {
	state := core.State{}
	if len(c.class.initialStates) == 0 {
		return state
	}
	c.initializing = true
	defer func() { c.initializing = false }()
	for _, init := range c.class.initialStates {
		for k, v := range init(c) {
			state[k] = v
		}
	}
	return state
}

// SetState is a no-op while the initial state is computed.
func (c *Instance) SetState(patch any, callback func()) error {
	if c.initializing {
		return nil
	}
	return c.Base.SetState(patch, callback)
}

// ReplaceState is a no-op while the initial state is computed.
func (c *Instance) ReplaceState(patch any, callback func()) error {
	if c.initializing {
		return nil
	}
	return c.Base.ReplaceState(patch, callback)
}

func (c *Instance) Render() any {
	return c.class.render(c)
}

func (c *Instance) ComponentWillMount() {
	if h := c.class.willMount; h != nil {
		h(c)
	}
}

func (c *Instance) ComponentDidMount() {
	if h := c.class.didMount; h != nil {
		h(c)
	}
}

func (c *Instance) ComponentWillReceiveProps(nextProps core.Props, nextContext core.Context) {
	if h := c.class.willReceiveProps; h != nil {
		h(c, nextProps, nextContext)
	}
}

func (c *Instance) ShouldComponentUpdate(nextProps core.Props, nextState core.State, nextContext core.Context) bool {
	if h := c.class.shouldUpdate; h != nil {
		return h(c, nextProps, nextState, nextContext)
	}
	return true
}

func (c *Instance) ComponentWillUpdate(nextProps core.Props, nextState core.State, nextContext core.Context) {
	if h := c.class.willUpdate; h != nil {
		h(c, nextProps, nextState, nextContext)
	}
}

func (c *Instance) ComponentDidUpdate(prevProps core.Props, prevState core.State, prevContext core.Context) {
	if h := c.class.didUpdate; h != nil {
		h(c, prevProps, prevState, prevContext)
	}
}

func (c *Instance) ComponentWillUnmount() {
	if h := c.class.willUnmount; h != nil {
		h(c)
	}
}

func (c *Instance) GetChildContext() core.Context {
	if h := c.class.childContext; h != nil {
		return h(c)
	}
	return nil
}

// Call invokes the method declared under name.
func (c *Instance) Call(name string, args ...any) (any, error) {
	m, ok := c.class.methods[name]
	if !ok {
		return nil, fmt.Errorf("class %s: no method %q", c.class.name, name)
	}
	return m(c, args...), nil
}

// Static returns a value declared in a Statics map.
func (c *Instance) Static(name string) any {
	if c.Type() == nil {
		return nil
	}
	return c.Type().Statics[name]
}
