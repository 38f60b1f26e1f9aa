package driver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nihei9/pyfront/cst"
	"github.com/nihei9/pyfront/token"
)

func buildSample() (*cst.Tree, cst.NodeID) {
	tree := cst.NewTree()
	a := tree.Leaf("NAME", token.New(token.NAME, 0, 1, 1, "a"))
	b := tree.Leaf("NUMBER", token.New(token.NUMBER, 4, 5, 1, "1"))
	root := tree.Interior("expr", []cst.NodeID{a, b})
	tree.SetRoot(root)
	return tree, root
}

func TestPrintTreeRendersBoxDrawing(t *testing.T) {
	tree, root := buildSample()
	var buf bytes.Buffer
	PrintTree(&buf, tree, root)

	out := buf.String()
	wantLines := []string{"expr", `├─ NAME "a"`, `└─ NUMBER "1"`}
	for _, w := range wantLines {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q; got:\n%v", w, out)
		}
	}
}

func TestPrintTreeOnNoParentPrintsNothing(t *testing.T) {
	tree := cst.NewTree()
	var buf bytes.Buffer
	PrintTree(&buf, tree, cst.NoParent)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for cst.NoParent, got %q", buf.String())
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	tree, root := buildSample()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, tree, root); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var got jsonNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Kind != "expr" {
		t.Fatalf("Kind = %q, want expr", got.Kind)
	}
	if len(got.Children) != 2 {
		t.Fatalf("len(Children) = %v, want 2", len(got.Children))
	}
	if got.Children[0].Kind != "NAME" || got.Children[0].Text != "a" {
		t.Fatalf("Children[0] = %+v, want {Kind: NAME, Text: a}", got.Children[0])
	}
	if got.Children[1].Kind != "NUMBER" || got.Children[1].Text != "1" {
		t.Fatalf("Children[1] = %+v, want {Kind: NUMBER, Text: 1}", got.Children[1])
	}
}
