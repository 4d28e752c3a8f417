package core

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/vdom/pkg/dom/memory"
	"github.com/go-drift/vdom/pkg/errors"
)

// tracked is a configurable component that records its lifecycle.
type tracked struct {
	Base
	id      string
	log     *[]string
	renders int

	initial   State
	renderFn  func(p *tracked) any
	scu       func(next State) bool
	onMount   func(p *tracked)
	onShould  func(p *tracked)
	onWill    func(p *tracked)
	onUpdate  func(p *tracked, prevProps Props, prevState State)
	onUnmount func(p *tracked)
	onReceive func(p *tracked, next Props)
}

func (p *tracked) record(event string) {
	if p.log != nil {
		*p.log = append(*p.log, p.id+"."+event)
	}
}

func (p *tracked) GetInitialState() State { return p.initial }

func (p *tracked) Render() any {
	p.renders++
	if p.renderFn != nil {
		return p.renderFn(p)
	}
	return H("span", nil, p.id)
}

func (p *tracked) ComponentWillMount() { p.record("willMount") }

func (p *tracked) ComponentDidMount() {
	p.record("didMount")
	if p.onMount != nil {
		p.onMount(p)
	}
}

func (p *tracked) ComponentWillReceiveProps(next Props, _ Context) {
	p.record("willReceiveProps")
	if p.onReceive != nil {
		p.onReceive(p, next)
	}
}

func (p *tracked) ShouldComponentUpdate(_ Props, next State, _ Context) bool {
	if p.onShould != nil {
		p.onShould(p)
	}
	if p.scu != nil {
		return p.scu(next)
	}
	return true
}

func (p *tracked) ComponentWillUpdate(Props, State, Context) {
	p.record("willUpdate")
	if p.onWill != nil {
		p.onWill(p)
	}
}

func (p *tracked) ComponentDidUpdate(prevProps Props, prevState State, _ Context) {
	p.record("didUpdate")
	if p.onUpdate != nil {
		p.onUpdate(p, prevProps, prevState)
	}
}

func (p *tracked) ComponentWillUnmount() {
	p.record("willUnmount")
	if p.onUnmount != nil {
		p.onUnmount(p)
	}
}

// trackedType returns a type whose instances are configured by init and
// collected in the returned slice.
func trackedType(name string, init func(*tracked)) (*ComponentType, *[]*tracked) {
	var made []*tracked
	typ := &ComponentType{
		Name: name,
		New: func() Component {
			p := &tracked{id: name}
			if init != nil {
				init(p)
			}
			made = append(made, p)
			return p
		},
	}
	return typ, &made
}

func TestLifecycle_MountOrder(t *testing.T) {
	r, _, container := setup(t)
	var log []string
	child, _ := trackedType("child", func(p *tracked) { p.log = &log })
	parent, _ := trackedType("parent", func(p *tracked) {
		p.log = &log
		p.renderFn = func(*tracked) any { return H("div", nil, Create(child, nil)) }
	})
	mustRender(t, r, Create(parent, nil), container)

	want := []string{"parent.willMount", "child.willMount", "child.didMount", "parent.didMount"}
	assert.Equal(t, want, log)
}

func TestLifecycle_IsMountedAfterDidMount(t *testing.T) {
	r, _, container := setup(t)
	var duringMount, inDidMount bool
	typ, made := trackedType("c", func(p *tracked) {
		p.renderFn = func(p *tracked) any {
			duringMount = p.IsMounted()
			return H("span", nil)
		}
		p.onMount = func(p *tracked) { inDidMount = p.IsMounted() }
	})
	mustRender(t, r, Create(typ, nil), container)

	assert.False(t, duringMount, "IsMounted during first render")
	assert.False(t, inDidMount, "IsMounted inside ComponentDidMount")
	assert.True(t, (*made)[0].IsMounted(), "IsMounted after mount")
	assert.Equal(t, (*made)[0].DOMNode(), container.Children()[0])
}

func TestLifecycle_WillMountStateFolded(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.initial = State{"a": 1}
		p.renderFn = func(p *tracked) any { return H("span", nil, p.State()["a"], p.State()["b"]) }
	})
	// Queue state before the first render through a wrapper type.
	wrapped := &ComponentType{
		Name: "c",
		New: func() Component {
			p := typ.New().(*tracked)
			return &willMountSetter{tracked: p}
		},
	}
	mustRender(t, r, Create(wrapped, nil), container)

	p := (*made)[0]
	assert.Equal(t, 1, p.renders, "state queued in ComponentWillMount must not cause a second render")
	assert.Equal(t, "<span>12</span>", memory.InnerHTML(container))
}

type willMountSetter struct {
	*tracked
	callback func()
}

func (w *willMountSetter) ComponentWillMount() {
	w.SetState(State{"b": 2}, w.callback)
}

func TestLifecycle_WillMountCallbackRunsAfterMount(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", nil)
	calls := 0
	var mountedAtCallback bool
	wrapped := &ComponentType{
		Name: "c",
		New: func() Component {
			w := &willMountSetter{tracked: typ.New().(*tracked)}
			w.callback = func() {
				calls++
				mountedAtCallback = w.IsMounted()
			}
			return w
		},
	}
	mustRender(t, r, Create(wrapped, nil), container)

	p := (*made)[0]
	assert.Equal(t, 1, calls)
	assert.True(t, mountedAtCallback, "the callback runs after ComponentDidMount")
	assert.Equal(t, 1, p.renders)
	assert.Equal(t, 2, p.State()["b"])

	require.NoError(t, p.SetState(State{"c": 3}, nil))
	assert.Equal(t, 1, calls, "callbacks run exactly once")
}

func TestUpdater_CoalescesInBatch(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("counter", func(p *tracked) {
		p.initial = State{"n": 0}
		p.renderFn = func(p *tracked) any { return H("b", nil, p.State()["n"]) }
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]
	require.Equal(t, 1, p.renders)

	var seen []int
	err := r.Batch(func() {
		for i := 0; i < 3; i++ {
			p.SetState(func(s State, _ Props) State {
				n := s["n"].(int) + 1
				seen = append(seen, n)
				return State{"n": n}
			}, nil)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 2, p.renders, "three updates in one batch render once")
	assert.Equal(t, []int{1, 2, 3}, seen, "patches apply in call order")
	assert.Equal(t, "<b>3</b>", memory.InnerHTML(container))
}

func TestUpdater_CoalescesDuringDidMount(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.initial = State{}
		p.onMount = func(p *tracked) {
			p.SetState(State{"a": 1}, nil)
			p.SetState(State{"b": 2}, nil)
			p.SetState(State{"a": 3}, nil)
		}
	})
	mustRender(t, r, Create(typ, nil), container)

	p := (*made)[0]
	assert.Equal(t, 2, p.renders)
	assert.Equal(t, State{"a": 3, "b": 2}, p.State())
}

func TestUpdater_ReplaceState(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", nil)
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	err := r.Batch(func() {
		p.SetState(State{"y": 2}, nil)
		p.ReplaceState(State{"x": 1}, nil)
	})
	require.NoError(t, err)
	assert.Equal(t, State{"x": 1}, p.State())
}

func TestUpdater_ResolveStateIdempotent(t *testing.T) {
	b := &Base{state: State{"a": 1}}
	u := &updater{inst: b}
	b.updater = u
	u.pendingStates = append(u.pendingStates, statePatch{merge: State{"b": 2}})

	first := u.resolveState(nil)
	second := u.resolveState(nil)
	assert.Equal(t, State{"a": 1, "b": 2}, first)
	assert.Equal(t, State{"a": 1}, second, "a drained queue resolves to the current state")
}

func TestUpdater_NilPatchAndNilCallback(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", nil)
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	require.NoError(t, p.SetState(nil, nil))
	assert.Equal(t, 1, p.renders, "a nil patch is a no-op")

	called := 0
	require.NoError(t, p.SetState(nil, func() { called++ }))
	require.NoError(t, p.SetState(State{"a": 1}, nil))
	assert.Equal(t, 1, called, "callbacks queued with a nil patch run on the next update")
}

func TestLifecycle_ShouldUpdateVeto(t *testing.T) {
	r, doc, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.initial = State{"n": 0}
		p.scu = func(State) bool { return false }
		p.renderFn = func(p *tracked) any { return H("i", nil, p.State()["n"]) }
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]
	before := memory.InnerHTML(container)
	doc.ResetMutations()

	calls := 0
	require.NoError(t, p.SetState(State{"n": 5}, func() { calls++ }))

	assert.Empty(t, doc.Mutations())
	assert.Equal(t, before, memory.InnerHTML(container))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 5, p.State()["n"], "vetoed updates still commit state")

	require.NoError(t, p.SetState(State{"n": 6}, nil))
	assert.Equal(t, 1, calls, "callbacks run exactly once")
}

func TestLifecycle_CallbackAfterUpdate(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.renderFn = func(p *tracked) any { return H("i", nil, p.State()["v"]) }
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	var html string
	require.NoError(t, p.SetState(State{"v": "x"}, func() { html = memory.InnerHTML(container) }))
	assert.Equal(t, "<i>x</i>", html, "callbacks observe the committed host tree")
}

func TestLifecycle_SetStateInWillUnmount(t *testing.T) {
	r, _, container := setup(t)
	var setErr error
	typ, made := trackedType("c", func(p *tracked) {
		p.onUnmount = func(p *tracked) {
			setErr = p.SetState(State{"late": true}, nil)
			if err := p.ForceUpdate(nil); err != nil {
				setErr = err
			}
		}
	})
	rt := mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	assert.NotPanics(t, rt.Unmount)
	assert.NoError(t, setErr)
	assert.Equal(t, 1, p.renders)
	assert.False(t, p.IsMounted())
	assert.Nil(t, p.DOMNode())
	assert.NoError(t, p.SetState(State{"after": true}, nil), "SetState after unmount is a no-op")
}

func TestLifecycle_UnmountOrderAndRelease(t *testing.T) {
	r, _, container := setup(t)
	var log []string
	child, _ := trackedType("child", func(p *tracked) { p.log = &log })
	parent, _ := trackedType("parent", func(p *tracked) {
		p.log = &log
		p.renderFn = func(*tracked) any { return Create(child, nil) }
	})
	rt := mustRender(t, r, Create(parent, nil), container)
	log = nil

	rt.Unmount()
	assert.Equal(t, []string{"parent.willUnmount", "child.willUnmount"}, log)
	assert.Zero(t, r.TrackedNodes())
}

func TestLifecycle_ParentUpdate(t *testing.T) {
	r, _, container := setup(t)
	var log []string
	var prev Props
	child, children := trackedType("child", func(p *tracked) {
		p.log = &log
		p.renderFn = func(p *tracked) any { return H("em", nil, p.Props()["label"]) }
		p.onUpdate = func(_ *tracked, prevProps Props, _ State) { prev = prevProps }
		p.onReceive = func(p *tracked, next Props) {
			// Suppressed: folded into the update already in progress.
			p.SetState(State{"seen": next["label"]}, nil)
		}
	})
	rt := mustRender(t, r, H("div", nil, Create(child, Props{"label": "a"})), container)
	log = nil

	mustUpdate(t, rt, H("div", nil, Create(child, Props{"label": "b"})))

	c := (*children)[0]
	assert.Len(t, *children, 1, "the instance is reused")
	assert.Equal(t, []string{"child.willReceiveProps", "child.willUpdate", "child.didUpdate"}, log)
	assert.Equal(t, 2, c.renders)
	assert.Equal(t, "b", c.State()["seen"])
	assert.Equal(t, "a", prev["label"])
	assert.Equal(t, "<div><em>b</em></div>", memory.InnerHTML(container))
}

func TestLifecycle_SetStateInDidUpdateDrains(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.initial = State{"n": 0}
		p.renderFn = func(p *tracked) any { return H("i", nil, p.State()["n"]) }
		p.onUpdate = func(p *tracked, _ Props, _ State) {
			if p.State()["n"] == 1 {
				p.SetState(State{"n": 2}, nil)
			}
		}
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	require.NoError(t, p.SetState(State{"n": 1}, nil))
	assert.Equal(t, 3, p.renders)
	assert.Equal(t, "<i>2</i>", memory.InnerHTML(container))
}

func TestLifecycle_ComponentRootReplaced(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.renderFn = func(p *tracked) any {
			if p.State()["open"] == true {
				return H("dialog", nil)
			}
			return nil
		}
	})
	rt := mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]
	placeholder := rt.Node()

	require.NoError(t, p.SetState(State{"open": true}, nil))

	assert.NotEqual(t, placeholder, rt.Node(), "the root follows the replaced node")
	assert.Equal(t, p.DOMNode(), rt.Node())
	assert.Equal(t, "<dialog></dialog>", memory.InnerHTML(container))

	mustUpdate(t, rt, Create(typ, nil))
	assert.Len(t, *made, 1, "the instance survives a parent update after replacement")
}

func TestLifecycle_SetStateInWillUpdateIsQueued(t *testing.T) {
	r, _, container := setup(t)
	var log []string
	typ, made := trackedType("c", func(p *tracked) {
		p.log = &log
		p.initial = State{"n": 0}
		p.onWill = func(p *tracked) {
			if p.renders == 1 {
				p.SetState(State{"extra": "x"}, nil)
			}
		}
		p.renderFn = func(p *tracked) any { return H("i", nil, p.State()["n"], p.State()["extra"]) }
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]
	log = nil

	require.NoError(t, p.SetState(State{"n": 1}, nil))

	assert.Equal(t, State{"n": 1, "extra": "x"}, p.State())
	assert.Equal(t, "<i>1x</i>", memory.InnerHTML(container))
	assert.Equal(t, []string{"c.willUpdate", "c.didUpdate", "c.willUpdate", "c.didUpdate"}, log,
		"state set in ComponentWillUpdate renders after the current update, not inside it")
}

func TestLifecycle_SetStateInShouldUpdateIsQueued(t *testing.T) {
	r, _, container := setup(t)
	var log []string
	asked := false
	typ, made := trackedType("c", func(p *tracked) {
		p.log = &log
		p.initial = State{"n": 0}
		p.onShould = func(p *tracked) {
			if !asked {
				asked = true
				p.SetState(State{"seen": true}, nil)
			}
		}
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]
	log = nil

	require.NoError(t, p.SetState(State{"n": 1}, nil))

	assert.Equal(t, State{"n": 1, "seen": true}, p.State())
	assert.Equal(t, []string{"c.willUpdate", "c.didUpdate", "c.willUpdate", "c.didUpdate"}, log)
}

func TestLifecycle_SetStateInVetoingShouldUpdate(t *testing.T) {
	r, _, container := setup(t)
	asked := false
	typ, made := trackedType("c", func(p *tracked) {
		p.initial = State{"n": 0}
		p.scu = func(State) bool { return false }
		p.onShould = func(p *tracked) {
			if !asked {
				asked = true
				p.SetState(State{"vetoed": 1}, nil)
			}
		}
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	require.NoError(t, p.SetState(State{"n": 5}, nil))

	assert.Equal(t, 1, p.renders)
	assert.Equal(t, State{"n": 5, "vetoed": 1}, p.State())
}

func TestBatch_DefersForceUpdate(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.scu = func(State) bool { return false }
		p.renderFn = func(p *tracked) any { return H("i", nil, p.State()["v"]) }
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	calls := 0
	var rendersInBatch int
	err := r.Batch(func() {
		require.NoError(t, p.ForceUpdate(func() { calls++ }))
		p.SetState(State{"v": "x"}, nil)
		require.NoError(t, p.ForceUpdate(nil))
		rendersInBatch = p.renders
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rendersInBatch, "ForceUpdate inside Batch does not render immediately")
	assert.Equal(t, 2, p.renders, "the deferred force renders once despite the veto")
	assert.Equal(t, 1, calls)
	assert.Equal(t, "<i>x</i>", memory.InnerHTML(container))
}

func TestLifecycle_ForceUpdateSkipsShouldUpdate(t *testing.T) {
	r, _, container := setup(t)
	typ, made := trackedType("c", func(p *tracked) {
		p.scu = func(State) bool { return false }
	})
	mustRender(t, r, Create(typ, nil), container)
	p := (*made)[0]

	called := false
	require.NoError(t, p.ForceUpdate(func() { called = true }))
	assert.Equal(t, 2, p.renders)
	assert.True(t, called)
}

func TestRender_InvalidResult(t *testing.T) {
	h := quietErrors(t)
	r, _, container := setup(t)
	typ, _ := trackedType("Broken", func(p *tracked) {
		p.renderFn = func(*tracked) any { return struct{}{} }
	})
	_, err := r.Render(Create(typ, nil), container)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRenderResult))
	var rerr *errors.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "Broken", rerr.Component)
	assert.Equal(t, "struct {}", rerr.Result)
	assert.Len(t, h.renders, 1)
}

func TestRender_Panic(t *testing.T) {
	quietErrors(t)
	r, _, container := setup(t)
	fn := &StatelessFunc{Name: "Exploding", Render: func(Props, Context) any { panic("nope") }}
	_, err := r.Render(Call(fn, nil), container)

	assert.True(t, errors.Is(err, errors.ErrRenderPanic))
	assert.True(t, strings.Contains(err.Error(), "@Exploding#render"), "error names the function: %v", err)
}

func TestRender_TextAndFalse(t *testing.T) {
	r, _, container := setup(t)
	text := &StatelessFunc{Render: func(p Props, _ Context) any { return p["v"] }}
	mustRender(t, r, H("p", nil, Call(text, Props{"v": "hi"}), Call(text, Props{"v": 7}), Call(text, Props{"v": false})), container)

	children := container.Children()[0].Children()
	require.Len(t, children, 3)
	assert.Equal(t, "hi", children[0].Data)
	assert.Equal(t, "7", children[1].Data)
	assert.Equal(t, memory.CommentNode, children[2].Type)
}

func TestStateless_RerendersOnEveryUpdate(t *testing.T) {
	r, _, container := setup(t)
	calls := 0
	greet := &StatelessFunc{
		Name: "Greet",
		Render: func(p Props, _ Context) any {
			calls++
			return H("span", nil, "hello ", p["name"])
		},
	}
	rt := mustRender(t, r, Call(greet, Props{"name": "a"}), container)
	node := rt.Node()
	mustUpdate(t, rt, Call(greet, Props{"name": "a"}))
	mustUpdate(t, rt, Call(greet, Props{"name": "b"}))

	assert.Equal(t, 3, calls)
	assert.Equal(t, node, rt.Node())
	assert.Equal(t, "<span>hello b</span>", memory.InnerHTML(container))
}

type themed struct {
	Base
}

func (t *themed) Render() any {
	return H("span", Props{"className": t.Context()["theme"]}, len(t.Context()))
}

type provider struct {
	Base
}

func (p *provider) GetChildContext() Context {
	return Context{"theme": p.Props()["theme"], "secret": 42}
}

func (p *provider) Render() any {
	return p.Props().Children()[0]
}

func TestContext_FilteredByContextTypes(t *testing.T) {
	r, _, container := setup(t)
	consumer := &ComponentType{
		Name:         "Themed",
		New:          func() Component { return &themed{} },
		ContextTypes: []string{"theme"},
	}
	prov := &ComponentType{Name: "Provider", New: func() Component { return &provider{} }}
	var seen Context
	fn := &StatelessFunc{
		ContextTypes: []string{"secret"},
		Render: func(_ Props, ctx Context) any {
			seen = ctx
			return nil
		},
	}

	rt := mustRender(t, r, Create(prov, Props{"theme": "dark"}, H("div", nil, Create(consumer, nil), Call(fn, nil))), container)
	assert.True(t, strings.HasPrefix(memory.InnerHTML(container), `<div><span class="dark">1</span><!--`))
	assert.Equal(t, Context{"secret": 42}, seen)

	mustUpdate(t, rt, Create(prov, Props{"theme": "light"}, H("div", nil, Create(consumer, nil), Call(fn, nil))))
	assert.True(t, strings.HasPrefix(memory.InnerHTML(container), `<div><span class="light">1</span>`))
}

func TestCreate_DefaultProps(t *testing.T) {
	typ := &ComponentType{Name: "Btn", DefaultProps: Props{"size": "m", "kind": "plain"}}
	n := Create(typ, Props{"size": "l", "key": "k"}, "label")

	assert.Equal(t, "l", n.Props["size"])
	assert.Equal(t, "plain", n.Props["kind"])
	assert.Equal(t, "k", n.Key)
	assert.True(t, reflect.DeepEqual([]Node{Text("label")}, n.Props.Children()))
}
