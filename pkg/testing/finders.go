package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/vdom/pkg/dom/memory"
)

// Finder locates nodes in the host tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	// root itself is never matched.
	Evaluate(root *memory.Node) []*memory.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memory.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memory.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memory.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memory.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*memory.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// predicateFinder matches nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(*memory.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *memory.Node) []*memory.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn: func(n *memory.Node) bool {
			return n.Type == memory.ElementNode && n.Tag == tag
		},
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByAttr returns a finder that matches elements whose attribute name equals
// value.
func ByAttr(name string, value any) Finder {
	return &predicateFinder{
		fn: func(n *memory.Node) bool {
			v, ok := n.Attr(name)
			return ok && reflect.DeepEqual(v, value)
		},
		desc: fmt.Sprintf("ByAttr(%s=%v)", name, value),
	}
}

// ByID returns a finder that matches elements by id attribute.
func ByID(id string) Finder {
	f := ByAttr("id", id).(*predicateFinder)
	f.desc = fmt.Sprintf("ByID(%q)", id)
	return f
}

// ByText returns a finder that matches elements whose text content equals
// text and that have no child element with the same content, so only the
// innermost element matches.
func ByText(text string) Finder {
	return &predicateFinder{
		fn: func(n *memory.Node) bool {
			return innermost(n, func(c *memory.Node) bool { return c.TextContent() == text })
		},
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches the innermost elements whose
// text content contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn: func(n *memory.Node) bool {
			return innermost(n, func(c *memory.Node) bool { return strings.Contains(c.TextContent(), substring) })
		},
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*memory.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *memory.Node) []*memory.Node {
	var results []*memory.Node
	seen := make(map[*memory.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, match := range f.matching.Evaluate(ancestor) {
			if !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

func innermost(n *memory.Node, match func(*memory.Node) bool) bool {
	if n.Type != memory.ElementNode || !match(n) {
		return false
	}
	for _, c := range n.Children() {
		if c.Type == memory.ElementNode && match(c) {
			return false
		}
	}
	return true
}

// collectMatches walks the subtree below root in depth-first pre-order.
func collectMatches(root *memory.Node, match func(*memory.Node) bool) []*memory.Node {
	var results []*memory.Node
	for _, c := range root.Children() {
		c.Walk(func(n *memory.Node) bool {
			if match(n) {
				results = append(results, n)
			}
			return true
		})
	}
	return results
}
