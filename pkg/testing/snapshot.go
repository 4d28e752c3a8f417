package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/vdom/pkg/dom"
	"github.com/go-drift/vdom/pkg/dom/memory"
)

// UpdateSnapshotsEnv names the environment variable that rewrites golden
// files instead of comparing against them.
const UpdateSnapshotsEnv = "VDOM_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the host tree below the container and the mutations
// recorded since the last Reset.
type Snapshot struct {
	Tree      []*SnapshotNode `json:"tree"`
	Mutations []string        `json:"mutations,omitempty"`
}

// SnapshotNode represents a node in the serialized host tree.
type SnapshotNode struct {
	Type      string            `json:"type"`
	Tag       string            `json:"tag,omitempty"`
	Namespace string            `json:"ns,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Text      string            `json:"text,omitempty"`
	Children  []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the current host tree. Mutations are included
// when withMutations is true.
func (t *Tester) CaptureSnapshot(withMutations ...bool) *Snapshot {
	snap := &Snapshot{Tree: []*SnapshotNode{}}
	for _, c := range t.container.Children() {
		snap.Tree = append(snap.Tree, captureNode(c))
	}
	if len(withMutations) > 0 && withMutations[0] {
		for _, m := range t.doc.Mutations() {
			snap.Mutations = append(snap.Mutations, m.String())
		}
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When VDOM_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := expected.Diff(s); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a diff from s to other. Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(s, other)
}

func captureNode(n *memory.Node) *SnapshotNode {
	out := &SnapshotNode{Type: n.Type.String()}
	switch n.Type {
	case memory.TextNode, memory.CommentNode:
		out.Text = n.Data
		return out
	}
	out.Tag = n.Tag
	if n.Namespace == dom.SVGNamespace {
		out.Namespace = "svg"
	}
	if attrs := n.Attrs(); len(attrs) > 0 {
		out.Attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			out.Attrs[k] = fmt.Sprint(v)
		}
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, captureNode(c))
	}
	return out
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
