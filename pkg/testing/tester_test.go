package testing

import (
	"testing"

	"github.com/go-drift/vdom/pkg/core"
)

type counter struct {
	core.Base
}

func (c *counter) GetInitialState() core.State {
	n, _ := c.Props()["initial"].(int)
	return core.State{"n": n}
}

func (c *counter) increment() {
	c.SetState(func(s core.State, _ core.Props) core.State {
		return core.State{"n": s["n"].(int) + 1}
	}, nil)
}

func (c *counter) Render() any {
	return core.H("div", core.Props{"className": "counter"},
		core.H("span", core.Props{"id": "value"}, c.State()["n"]),
		core.H("button", core.Props{"onClick": c.increment}, "add"),
	)
}

var counterInstances []*counter

var Counter = &core.ComponentType{
	Name: "Counter",
	New: func() core.Component {
		c := &counter{}
		counterInstances = append(counterInstances, c)
		return c
	},
}

func TestTester_RenderAndClick(t *testing.T) {
	tester := NewTester(t)
	tester.Render(core.Create(Counter, core.Props{"initial": 5}))

	if got := tester.Find(ByID("value")).Text(); got != "5" {
		t.Fatalf("value = %q, want 5", got)
	}

	tester.Click(ByTag("button"))
	tester.Click(ByText("add"))

	if got := tester.Find(ByID("value")).Text(); got != "7" {
		t.Errorf("value = %q, want 7", got)
	}
}

func TestTester_HTML(t *testing.T) {
	tester := NewTester(t)
	tester.Render(core.Create(Counter, nil))

	want := `<div class="counter"><span id="value">0</span><button>add</button></div>`
	if got := tester.HTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestTester_RenderTwiceUpdates(t *testing.T) {
	tester := NewTester(t)
	tester.Render(core.H("p", nil, "one"))
	first := tester.Root()
	tester.Reset()

	tester.Render(core.H("p", nil, "two"))

	if tester.Root() != first {
		t.Error("second Render should reuse the root")
	}
	if got := tester.HTML(); got != "<p>two</p>" {
		t.Errorf("HTML = %q", got)
	}
	if n := len(tester.Mutations()); n != 1 {
		t.Errorf("mutations = %v, want one text update", tester.Mutations())
	}
}

func TestTester_Batch(t *testing.T) {
	counterInstances = nil
	tester := NewTester(t)
	tester.Render(core.Create(Counter, nil))
	inst := counterInstances[len(counterInstances)-1]
	tester.Reset()

	tester.Batch(func() {
		inst.increment()
		inst.increment()
		inst.increment()
	})

	if got := tester.Find(ByID("value")).Text(); got != "3" {
		t.Errorf("value = %q, want 3", got)
	}
	if n := len(tester.Mutations()); n != 1 {
		t.Errorf("mutations = %v, want one text update", tester.Mutations())
	}
}

func TestTester_CleanupUnmounts(t *testing.T) {
	tester := NewTester(t)
	tester.Render(core.H("p", nil, "x"))
	tester.Cleanup()

	if tester.Root() != nil {
		t.Error("root should be cleared")
	}
	if got := tester.HTML(); got != "" {
		t.Errorf("HTML after cleanup = %q", got)
	}
	if n := tester.Reconciler().TrackedNodes(); n != 0 {
		t.Errorf("tracked nodes = %d, want 0", n)
	}
}
