// Package class assembles component types from declarative specs and mixins.
//
// A Spec lists render logic, lifecycle hooks and type-level declarations.
// Create composes the spec with its mixins into a closed core.ComponentType:
//
//	var Logger = &class.Spec{
//	    ComponentDidMount: func(c *class.Instance) { log.Println("mounted") },
//	}
//
//	Greeting, err := class.Create(&class.Spec{
//	    DisplayName: "Greeting",
//	    Mixins:      []*class.Spec{Logger},
//	    Render: func(c *class.Instance) any {
//	        return core.H("p", nil, "hello ", c.Props()["name"])
//	    },
//	})
//
// Mixins are applied depth-first, a mixin's own mixins before the mixin, and
// the spec last. Hooks with the same name run in that order and the result of
// the last one is used. GetInitialState results are merged instead.
package class

import (
	"fmt"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/errors"
)

// Method is a named instance method. Methods declared under the same name by
// several mixins are chained; the last result is returned.
type Method func(c *Instance, args ...any) any

// Spec declares a component type or a mixin.
type Spec struct {
	DisplayName string
	Mixins      []*Spec

	ContextTypes    []string
	PropTypes       map[string]core.PropValidator
	GetDefaultProps func() core.Props
	Statics         map[string]any

	GetInitialState           func(c *Instance) core.State
	Render                    func(c *Instance) any
	ComponentWillMount        func(c *Instance)
	ComponentDidMount         func(c *Instance)
	ComponentWillReceiveProps func(c *Instance, nextProps core.Props, nextContext core.Context)
	ShouldComponentUpdate     func(c *Instance, nextProps core.Props, nextState core.State, nextContext core.Context) bool
	ComponentWillUpdate       func(c *Instance, nextProps core.Props, nextState core.State, nextContext core.Context)
	ComponentDidUpdate        func(c *Instance, prevProps core.Props, prevState core.State, prevContext core.Context)
	ComponentWillUnmount      func(c *Instance)
	GetChildContext           func(c *Instance) core.Context

	Methods map[string]Method
}

// compiled is the flattened hook set shared by every instance of a type.
type compiled struct {
	name          string
	initialStates []func(c *Instance) core.State

	render           func(c *Instance) any
	willMount        func(c *Instance)
	didMount         func(c *Instance)
	willReceiveProps func(c *Instance, nextProps core.Props, nextContext core.Context)
	shouldUpdate     func(c *Instance, nextProps core.Props, nextState core.State, nextContext core.Context) bool
	willUpdate       func(c *Instance, nextProps core.Props, nextState core.State, nextContext core.Context)
	didUpdate        func(c *Instance, prevProps core.Props, prevState core.State, prevContext core.Context)
	willUnmount      func(c *Instance)
	childContext     func(c *Instance) core.Context
	methods          map[string]Method
}

// Create builds a component type from spec. It fails when spec has no
// Render or when the mixin graph contains a cycle.
func Create(spec *Spec) (*core.ComponentType, error) {
	if spec == nil || spec.Render == nil {
		name := "class"
		if spec != nil && spec.DisplayName != "" {
			name = spec.DisplayName
		}
		return nil, &errors.VDOMError{
			Op:   "class.Create",
			Kind: errors.KindConstruct,
			Err:  fmt.Errorf("%s: %w", name, errors.ErrMissingRender),
		}
	}

	c := &compiled{name: spec.DisplayName, methods: map[string]Method{}}
	typ := &core.ComponentType{
		Name:         spec.DisplayName,
		DefaultProps: core.Props{},
		PropTypes:    map[string]core.PropValidator{},
		Statics:      map[string]any{},
	}
	visit := func(m *Spec) {
		c.combine(m)
		combineType(typ, m)
	}
	onPath := map[*Spec]bool{spec: true}
	if err := eachMixin(spec.Mixins, onPath, visit); err != nil {
		return nil, &errors.VDOMError{Op: "class.Create", Kind: errors.KindConstruct, Err: err}
	}
	visit(spec)

	typ.New = func() core.Component {
		return &Instance{class: c}
	}
	return typ, nil
}

// MustCreate is like Create but panics on error. It is meant for package
// level declarations.
func MustCreate(spec *Spec) *core.ComponentType {
	typ, err := Create(spec)
	if err != nil {
		panic(err)
	}
	return typ
}

func eachMixin(mixins []*Spec, onPath map[*Spec]bool, visit func(*Spec)) error {
	for _, m := range mixins {
		if m == nil {
			continue
		}
		if onPath[m] {
			return fmt.Errorf("mixin cycle through %q", m.DisplayName)
		}
		onPath[m] = true
		if err := eachMixin(m.Mixins, onPath, visit); err != nil {
			return err
		}
		delete(onPath, m)
		visit(m)
	}
	return nil
}

func combineType(typ *core.ComponentType, m *Spec) {
	for _, k := range m.ContextTypes {
		if !contains(typ.ContextTypes, k) {
			typ.ContextTypes = append(typ.ContextTypes, k)
		}
	}
	for k, v := range m.PropTypes {
		typ.PropTypes[k] = v
	}
	if m.GetDefaultProps != nil {
		for k, v := range m.GetDefaultProps() {
			typ.DefaultProps[k] = v
		}
	}
	for k, v := range m.Statics {
		typ.Statics[k] = v
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *compiled) combine(m *Spec) {
	if m.GetInitialState != nil {
		c.initialStates = append(c.initialStates, m.GetInitialState)
	}
	// Only one render can produce the tree; the spec's own always wins.
	if m.Render != nil {
		c.render = m.Render
	}
	c.willMount = chain(c.willMount, m.ComponentWillMount)
	c.didMount = chain(c.didMount, m.ComponentDidMount)
	c.willUnmount = chain(c.willUnmount, m.ComponentWillUnmount)
	if f := m.ComponentWillReceiveProps; f != nil {
		if prev := c.willReceiveProps; prev != nil {
			c.willReceiveProps = func(i *Instance, p core.Props, ctx core.Context) { prev(i, p, ctx); f(i, p, ctx) }
		} else {
			c.willReceiveProps = f
		}
	}
	if f := m.ShouldComponentUpdate; f != nil {
		if prev := c.shouldUpdate; prev != nil {
			c.shouldUpdate = func(i *Instance, p core.Props, s core.State, ctx core.Context) bool {
				prev(i, p, s, ctx)
				return f(i, p, s, ctx)
			}
		} else {
			c.shouldUpdate = f
		}
	}
	if f := m.ComponentWillUpdate; f != nil {
		if prev := c.willUpdate; prev != nil {
			c.willUpdate = func(i *Instance, p core.Props, s core.State, ctx core.Context) { prev(i, p, s, ctx); f(i, p, s, ctx) }
		} else {
			c.willUpdate = f
		}
	}
	if f := m.ComponentDidUpdate; f != nil {
		if prev := c.didUpdate; prev != nil {
			c.didUpdate = func(i *Instance, p core.Props, s core.State, ctx core.Context) { prev(i, p, s, ctx); f(i, p, s, ctx) }
		} else {
			c.didUpdate = f
		}
	}
	if f := m.GetChildContext; f != nil {
		if prev := c.childContext; prev != nil {
			c.childContext = func(i *Instance) core.Context { prev(i); return f(i) }
		} else {
			c.childContext = f
		}
	}
	for name, f := range m.Methods {
		if f == nil {
			continue
		}
		if prev, ok := c.methods[name]; ok {
			c.methods[name] = func(i *Instance, args ...any) any { prev(i, args...); return f(i, args...) }
		} else {
			c.methods[name] = f
		}
	}
}

func chain(prev, next func(*Instance)) func(*Instance) {
	switch {
	case next == nil:
		return prev
	case prev == nil:
		return next
	default:
		return func(i *Instance) { prev(i); next(i) }
	}
}
