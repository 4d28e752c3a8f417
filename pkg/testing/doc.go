// Package testing provides a harness for rendering component trees into an
// in-memory document and asserting on the result.
//
// # Quick Start
//
// Create a tester, render a tree, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := vdomtest.NewTester(t)
//	    tester.Render(core.Create(Counter, nil))
//
//	    tester.Click(vdomtest.ByTag("button"))
//
//	    if !tester.Find(vdomtest.ByText("clicked 1")).Exists() {
//	        t.Error("expected 'clicked 1'")
//	    }
//	}
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	VDOM_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import vdomtest "github.com/go-drift/vdom/pkg/testing"
package testing
