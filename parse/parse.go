// Package parse implements the predictive recursive-descent parser engine
// and its per-production specialization (spec.md §4.4, §4.5 — C6 + C7): a
// token cursor, one recognizer per grammar-tree shape, the alternative
// ordering policy, and the per-nonterminal entry rule that assembles the
// CST.
//
// This package realizes C7 as table-driven dispatch on the grammar trees
// already built by package grammar, rather than as Go source generation;
// spec.md §4.5 allows either and requires the same behavior from both.
package parse

import (
	"fmt"

	"github.com/nihei9/pyfront/cst"
	"github.com/nihei9/pyfront/grammar"
	"github.com/nihei9/pyfront/token"
)

// Parser holds everything derived from a Grammar: the FIRST table and the
// memoized alternative-ordering cache. Both are created by New and filled
// lazily on first query; once an entry is computed it never changes.
type Parser struct {
	g     *grammar.Grammar
	first *grammar.FirstTable
	order *orderCache
}

// New builds a Parser over g. FIRST sets are computed lazily on first use;
// constructing a Parser does not itself walk the whole grammar.
func New(g *grammar.Grammar) *Parser {
	first := grammar.NewFirstTable(g)
	return &Parser{
		g:     g,
		first: first,
		order: newOrderCache(first),
	}
}

// Failure reports that no production matched at a given token position. It
// is returned only from Parse, the top-level entry point; internally a
// failed recognizer returns (cst.NoParent, false) with no error value, per
// spec.md §9's "failure as null".
type Failure struct {
	Pos   int
	Token token.Token
}

func (e *Failure) Error() string {
	return fmt.Sprintf("parse failure at line %d: unexpected %v", e.Token.Line, e.Token.Kind)
}

// Parse runs the parser over toks starting from the grammar's declared
// start symbol and returns the resulting CST. toks must end with exactly
// one ENDMARKER (the contract C2 guarantees); Parse does not itself verify
// this.
func (p *Parser) Parse(toks []token.Token) (*cst.Tree, error) {
	c := newCursor(toks, p.g.SpecialTerminals)
	tree := cst.NewTree()

	id, ok := p.parseNonterminal(c, p.g.Start, tree)
	if !ok {
		return nil, &Failure{Pos: c.pos, Token: c.peek()}
	}
	tree.SetRoot(id)
	return tree, nil
}

// parseNonterminal is the per-nonterminal entry of spec.md §4.4: a FIRST
// disjointness short-circuit, then a trial of the production's root node,
// wrapped into a labeled CST node on success.
func (p *Parser) parseNonterminal(c *cursor, name string, tree *cst.Tree) (cst.NodeID, bool) {
	first := p.first.FirstOf(name)
	t := grammar.Set(c.peekGStr())
	if t.IsDisjoint(first) && !first.Has(grammar.EPS) {
		return cst.NoParent, false
	}

	start := c.pos
	children, ok := p.recognize(c, p.g.Productions[name], tree)
	if !ok {
		c.pos = start
		return cst.NoParent, false
	}
	return tree.Interior(name, children), true
}

// recognize dispatches on n's shape and returns the CST nodes produced by a
// successful match, or (nil, false) with the cursor restored to its entry
// position on failure.
func (p *Parser) recognize(c *cursor, n *grammar.Node, tree *cst.Tree) ([]cst.NodeID, bool) {
	switch n.Kind {
	case grammar.KindLeaf:
		return p.recognizeLeaf(c, n, tree)

	case grammar.KindSeq:
		start := c.pos
		var children []cst.NodeID
		for _, child := range n.Children {
			cs, ok := p.recognize(c, child, tree)
			if !ok {
				c.pos = start
				return nil, false
			}
			children = append(children, cs...)
		}
		return children, true

	case grammar.KindAlt:
		start := c.pos
		for _, i := range p.order.orderOf(n) {
			c.pos = start
			cs, ok := p.recognize(c, n.Children[i], tree)
			if ok {
				return cs, true
			}
		}
		c.pos = start
		return nil, false

	case grammar.KindOpt:
		start := c.pos
		cs, ok := p.recognize(c, n.Child, tree)
		if !ok {
			c.pos = start
			return nil, true
		}
		return cs, true

	case grammar.KindStar:
		var children []cst.NodeID
		for {
			start := c.pos
			cs, ok := p.recognize(c, n.Child, tree)
			if !ok {
				c.pos = start
				break
			}
			children = append(children, cs...)
		}
		return children, true

	case grammar.KindPlus:
		var children []cst.NodeID
		count := 0
		for {
			start := c.pos
			cs, ok := p.recognize(c, n.Child, tree)
			if !ok {
				c.pos = start
				break
			}
			children = append(children, cs...)
			count++
		}
		if count == 0 {
			return nil, false
		}
		return children, true
	}

	return nil, false
}

// recognizeLeaf handles the four leaf shapes of spec.md §4.4: an operator
// literal, a keyword-like (identifier-spelled) literal, a bare terminal-kind
// name, and a nonterminal reference.
func (p *Parser) recognizeLeaf(c *cursor, n *grammar.Node, tree *cst.Tree) ([]cst.NodeID, bool) {
	leaf := n.Leaf

	if grammar.IsQuotedLiteral(leaf) {
		lit := grammar.UnquoteLiteral(leaf)
		if spelling, kind, ok := token.MatchOperator(lit); ok && spelling == lit {
			if !c.testLiteral(kind, lit) {
				return nil, false
			}
			tok := c.get()
			return []cst.NodeID{tree.Leaf(kind.String(), tok)}, true
		}
		if !c.testLiteral(token.NAME, lit) {
			return nil, false
		}
		tok := c.get()
		return []cst.NodeID{tree.Leaf(token.NAME.String(), tok)}, true
	}

	if kind, ok := token.KindByName(leaf); ok {
		if !c.testKind(kind) {
			return nil, false
		}
		tok := c.get()
		return []cst.NodeID{tree.Leaf(kind.String(), tok)}, true
	}

	id, ok := p.parseNonterminal(c, leaf, tree)
	if !ok {
		return nil, false
	}
	return []cst.NodeID{id}, true
}
