package grammar

import (
	"strings"
	"testing"
)

func mustLoad(t *testing.T, src, start string) *Grammar {
	t.Helper()
	g, err := Load(strings.NewReader(src), start)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return g
}

func TestLoadStarShape(t *testing.T) {
	src := `
expr: xor_expr ('|' xor_expr)*
xor_expr: NAME
`
	g := mustLoad(t, src, "expr")

	root := g.Productions["expr"]
	if root.Kind != KindSeq || len(root.Children) != 2 {
		t.Fatalf("expr root = %+v, want a 2-child Seq", root)
	}
	if root.Children[0].Kind != KindLeaf || root.Children[0].Leaf != "xor_expr" {
		t.Errorf("expr.Children[0] = %+v, want Leaf(xor_expr)", root.Children[0])
	}
	star := root.Children[1]
	if star.Kind != KindStar {
		t.Fatalf("expr.Children[1].Kind = %v, want KindStar", star.Kind)
	}
	inner := star.Child
	if inner.Kind != KindSeq || len(inner.Children) != 2 {
		t.Fatalf("star inner = %+v, want a 2-child Seq", inner)
	}
	if inner.Children[0].Leaf != "'|'" {
		t.Errorf("star inner.Children[0].Leaf = %q, want \"'|'\"", inner.Children[0].Leaf)
	}
}

func TestLoadPlusIsDistinctFromStar(t *testing.T) {
	src := `
block: (stmt)+
stmt: NAME
`
	g := mustLoad(t, src, "block")
	root := g.Productions["block"]
	if root.Kind != KindSeq || len(root.Children) != 1 {
		t.Fatalf("block root = %+v, want a 1-child Seq", root)
	}
	if root.Children[0].Kind != KindPlus {
		t.Fatalf("block.Children[0].Kind = %v, want KindPlus", root.Children[0].Kind)
	}
}

func TestLoadOptShape(t *testing.T) {
	src := `suite: [NEWLINE] NAME`
	g := mustLoad(t, src, "suite")
	root := g.Productions["suite"]
	if root.Children[0].Kind != KindOpt {
		t.Fatalf("suite.Children[0].Kind = %v, want KindOpt", root.Children[0].Kind)
	}
}

func TestLoadAlternation(t *testing.T) {
	src := `comp_op: '<' | '>' | '==' | 'is' | 'is' 'not' | 'not' 'in'`
	g := mustLoad(t, src, "comp_op")
	root := g.Productions["comp_op"]
	if root.Kind != KindAlt || len(root.Children) != 6 {
		t.Fatalf("comp_op root = %+v, want a 6-child Alt", root)
	}
}

func TestLoadCommentsAndContinuationLines(t *testing.T) {
	src := `
# a comment line
expr: NAME  # trailing comment
    '+' NAME
`
	g := mustLoad(t, src, "expr")
	root := g.Productions["expr"]
	if root.Kind != KindSeq || len(root.Children) != 3 {
		t.Fatalf("expr root = %+v, want a 3-child Seq", root)
	}
}

func TestLoadDuplicateProductionIsError(t *testing.T) {
	src := `
a: NAME
a: NUMBER
`
	if _, err := Load(strings.NewReader(src), "a"); err == nil {
		t.Fatalf("expected duplicate production error")
	}
}

func TestLoadUndeclaredNonterminalIsError(t *testing.T) {
	src := `a: b`
	if _, err := Load(strings.NewReader(src), "a"); err == nil {
		t.Fatalf("expected undeclared nonterminal error")
	}
}

func TestLoadUnterminatedLiteralIsError(t *testing.T) {
	src := `a: 'def`
	if _, err := Load(strings.NewReader(src), "a"); err == nil {
		t.Fatalf("expected unterminated literal error")
	}
}

func TestLoadCollectsSpecialTerminals(t *testing.T) {
	src := `
stmt: 'def' NAME '(' ')' ':'
`
	g := mustLoad(t, src, "stmt")
	for _, lit := range []string{"'def'", "'('", "')'", "':'"} {
		if _, ok := g.SpecialTerminals[lit]; !ok {
			t.Errorf("SpecialTerminals missing %q", lit)
		}
	}
}
