// Package driver renders a parsed concrete syntax tree for human and
// machine consumption: a box-drawing text tree and a JSON encoding,
// adapted from the teacher's flat *Node CST printer to walk the arena-based
// cst.Tree instead of owning-pointer nodes.
package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nihei9/pyfront/cst"
)

// PrintTree writes a box-drawing text rendering of tree to w, rooted at id.
func PrintTree(w io.Writer, tree *cst.Tree, id cst.NodeID) {
	printTree(w, tree, id, "", "")
}

func printTree(w io.Writer, tree *cst.Tree, id cst.NodeID, ruledLine string, childPrefix string) {
	if id == cst.NoParent {
		return
	}
	n := tree.Node(id)

	if n.IsLeaf() {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, n.Kind, n.Tok.Text())
		return
	}
	fmt.Fprintf(w, "%v%v\n", ruledLine, n.Kind)

	num := len(n.Children)
	for i, child := range n.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, tree, child, childPrefix+line, childPrefix+prefix)
	}
}

// jsonNode mirrors one cst.Node as a serializable tree, since the arena's
// integer-handle representation is an implementation detail that JSON
// consumers should not have to decode.
type jsonNode struct {
	Kind     string      `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Line     int         `json:"line,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

func toJSONNode(tree *cst.Tree, id cst.NodeID) *jsonNode {
	if id == cst.NoParent {
		return nil
	}
	n := tree.Node(id)
	if n.IsLeaf() {
		return &jsonNode{Kind: n.Kind, Text: n.Tok.Text(), Line: n.Tok.Line}
	}
	jn := &jsonNode{Kind: n.Kind}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(tree, c))
	}
	return jn
}

// WriteJSON encodes the tree rooted at id to w as indented JSON.
func WriteJSON(w io.Writer, tree *cst.Tree, id cst.NodeID) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSONNode(tree, id))
}
