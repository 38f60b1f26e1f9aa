package tester

import (
	"bytes"
	"fmt"
)

// Tree is the test suite's own tiny representation of an expected or actual
// CST shape: a kind label, an optional lexeme (set iff the node is a leaf),
// and an ordered list of children. It exists independently of package cst
// so that expected trees can be authored as plain text fixtures.
type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Lexeme   string
	IsLeaf   bool
	Children []*Tree
}

// NewNonTerminalTree builds an interior Tree node.
func NewNonTerminalTree(kind string, children ...*Tree) *Tree {
	return &Tree{Kind: kind, Children: children}
}

// NewTerminalTree builds a leaf Tree node.
func NewTerminalTree(kind string, lexeme string) *Tree {
	return &Tree{Kind: kind, Lexeme: lexeme, IsLeaf: true}
}

// Fill back-fills Parent and Offset on every descendant, mirroring the
// teacher's two-pass tree construction so path() can report a breadcrumb
// without each node needing to know its position when it was created.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

// TreeDiff is one point of disagreement between an expected and an actual
// Tree, reported with both trees' breadcrumb paths.
type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// DiffTree compares expected against actual in a pre-order walk. Within a
// node it stops at the first disagreement (kind, leaf shape, lexeme, or
// child count) and does not descend further; when a node agrees, every
// child pair is compared, so diffs from several sibling subtrees can be
// returned. A "_" expected kind matches any actual kind; the node's shape,
// lexeme and children are still compared.
func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected == nil || actual == nil {
		return []*TreeDiff{{Message: "one of expected/actual tree is nil"}}
	}
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected %q but got %q", expected.Kind, actual.Kind)
		return []*TreeDiff{newTreeDiff(expected, actual, msg)}
	}
	if expected.IsLeaf != actual.IsLeaf {
		msg := fmt.Sprintf("unexpected node shape at %v: leaf=%v but got leaf=%v", expected.Kind, expected.IsLeaf, actual.IsLeaf)
		return []*TreeDiff{newTreeDiff(expected, actual, msg)}
	}
	if expected.IsLeaf && expected.Lexeme != actual.Lexeme {
		msg := fmt.Sprintf("unexpected lexeme: expected %q but got %q", expected.Lexeme, actual.Lexeme)
		return []*TreeDiff{newTreeDiff(expected, actual, msg)}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected child count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{newTreeDiff(expected, actual, msg)}
	}
	var diffs []*TreeDiff
	for i, ec := range expected.Children {
		diffs = append(diffs, DiffTree(ec, actual.Children[i])...)
	}
	return diffs
}

// Format renders t as an indented parenthesized text tree, the same shape
// ParseExpectedTree reads back.
func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteByte('(')
	buf.WriteString(t.Kind)
	if t.IsLeaf {
		fmt.Fprintf(buf, " %q", t.Lexeme)
	}
	for _, c := range t.Children {
		buf.WriteByte('\n')
		c.format(buf, depth+1)
	}
	buf.WriteByte(')')
}
