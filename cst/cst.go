// Package cst is the concrete syntax tree produced by package parse
// (spec.md §3, §9). Nodes live in a flat arena indexed by NodeID rather than
// holding owning pointers to their parent, so construction never has to
// fight Go's ownership rules while a subrule is still provisional.
package cst

import "github.com/nihei9/pyfront/token"

// NodeID indexes a Node within a Tree's arena.
type NodeID int

// NoParent is the Parent value of a tree's root.
const NoParent NodeID = -1

// Node is one CST node: an interior node labeled with a nonterminal name, or
// a leaf labeled with a terminal-kind name and carrying the token it came
// from. Exactly one of Tok or Children is meaningful for a given node.
type Node struct {
	Kind     string
	Tok      *token.Token
	Children []NodeID
	Parent   NodeID
}

// IsLeaf reports whether n is a leaf (carries a token, not children).
func (n *Node) IsLeaf() bool { return n.Tok != nil }

// Tree is the arena owning every node created during one parse.
type Tree struct {
	nodes []Node
	root  NodeID
}

// NewTree returns an empty arena.
func NewTree() *Tree {
	return &Tree{root: NoParent}
}

// Leaf adds a leaf node for tok, labeled with its terminal-kind name.
func (t *Tree) Leaf(kind string, tok token.Token) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Kind: kind, Tok: &tok, Parent: NoParent})
	return id
}

// Interior adds an interior node labeled kind, reparenting each of children
// to point back at the new node.
func (t *Tree) Interior(kind string, children []NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Kind: kind, Children: children, Parent: NoParent})
	for _, c := range children {
		t.nodes[c].Parent = id
	}
	return id
}

// Node returns the node at id.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// SetRoot records id as the tree's root, i.e. the CST returned to the caller.
func (t *Tree) SetRoot(id NodeID) { t.root = id }

// Root returns the tree's root, or NoParent if the tree is empty.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes allocated in the arena.
func (t *Tree) Len() int { return len(t.nodes) }
