package testing

import (
	"testing"

	"github.com/go-logr/logr/testr"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/dom/memory"
)

// DefaultContainerTag is the tag of the container a Tester renders into.
const DefaultContainerTag = "div"

// Tester renders descriptor trees into an in-memory document. Every
// operation fails the test on error.
type Tester struct {
	t         testing.TB
	doc       *memory.Document
	container *memory.Node
	r         *core.Reconciler
	root      *core.Root
}

// NewTester creates a tester whose reconciler logs through t. The mounted
// tree is unmounted when the test finishes.
func NewTester(t testing.TB, opts ...core.Option) *Tester {
	t.Helper()
	doc := memory.NewDocument()
	log := testr.NewWithInterface(t, testr.Options{Verbosity: 1})
	tester := &Tester{
		t:         t,
		doc:       doc,
		container: doc.CreateContainer(DefaultContainerTag),
		r:         core.New(doc, append([]core.Option{core.WithLogger(log)}, opts...)...),
	}
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the rendered tree, if any.
func (t *Tester) Cleanup() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
}

// Render mounts n into the container, or updates the tree already there.
func (t *Tester) Render(n core.Node) *Tester {
	t.t.Helper()
	root, err := t.r.Render(n, t.container)
	if err != nil {
		t.t.Fatalf("Render: %v", err)
	}
	t.root = root
	return t
}

// Reset clears the mutation journal, so Mutations reports only what
// happens afterwards.
func (t *Tester) Reset() *Tester {
	t.doc.ResetMutations()
	return t
}

// Batch runs fn with state updates deferred until it returns.
func (t *Tester) Batch(fn func()) {
	t.t.Helper()
	if err := t.r.Batch(fn); err != nil {
		t.t.Fatalf("Batch: %v", err)
	}
}

// Dispatch delivers event to the first node matched by finder.
func (t *Tester) Dispatch(finder Finder, event string, data any) {
	t.t.Helper()
	target := t.Find(finder).FirstOrNil()
	if target == nil {
		t.t.Fatalf("Dispatch(%s): no node matches %s", event, finder.Description())
		return
	}
	if err := t.r.Dispatch(target, event, data); err != nil {
		t.t.Fatalf("Dispatch(%s): %v", event, err)
	}
}

// Click dispatches a click to the first node matched by finder.
func (t *Tester) Click(finder Finder) {
	t.t.Helper()
	t.Dispatch(finder, "click", nil)
}

// Find evaluates a finder against the container's subtree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.container),
		finder: finder,
	}
}

// HTML serializes the content of the container.
func (t *Tester) HTML() string {
	return memory.InnerHTML(t.container)
}

// Mutations returns the host mutations recorded since the last Reset.
func (t *Tester) Mutations() []memory.Mutation {
	return t.doc.Mutations()
}

// Root returns the mounted root, or nil before Render.
func (t *Tester) Root() *core.Root {
	return t.root
}

// Reconciler returns the reconciler driving the document.
func (t *Tester) Reconciler() *core.Reconciler {
	return t.r
}

// Document returns the in-memory document.
func (t *Tester) Document() *memory.Document {
	return t.doc
}

// Container returns the node trees are rendered into.
func (t *Tester) Container() *memory.Node {
	return t.container
}
