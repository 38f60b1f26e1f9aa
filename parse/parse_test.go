package parse

import (
	"strings"
	"testing"

	"github.com/nihei9/pyfront/cst"
	"github.com/nihei9/pyfront/grammar"
	"github.com/nihei9/pyfront/lexer"
	"github.com/nihei9/pyfront/token"
)

func mustLoadGrammar(t *testing.T, src, start string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Load(strings.NewReader(src), start)
	if err != nil {
		t.Fatalf("grammar.Load: %v", err)
	}
	return g
}

func lexerTokenize(t *testing.T, src string) ([]token.Token, error) {
	t.Helper()
	return lexer.TokenizeString(src)
}

func leafTexts(tree *cst.Tree, id cst.NodeID) []string {
	n := tree.Node(id)
	if n.IsLeaf() {
		return []string{n.Tok.Text()}
	}
	var out []string
	for _, c := range n.Children {
		out = append(out, leafTexts(tree, c)...)
	}
	return out
}

func TestParseCompOpPrefersIsNotOverIs(t *testing.T) {
	src := `comp_op: '<' | '>' | '==' | 'is' | 'is' 'not' | 'not' 'in'`
	g := mustLoadGrammar(t, src, "comp_op")
	p := New(g)

	toks, err := lexerTokenize(t, "is not\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	tree, err := p.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Node(tree.Root())
	if root.Kind != "comp_op" {
		t.Fatalf("root.Kind = %q, want comp_op", root.Kind)
	}
	if len(root.Children) != 2 {
		t.Fatalf("comp_op has %d children, want 2 ('is' 'not')", len(root.Children))
	}
	got := leafTexts(tree, tree.Root())
	want := []string{"is", "not"}
	if got[0] != want[0] || got[1] != want[1] {
		t.Errorf("leaf texts = %v, want %v", got, want)
	}
}

func TestParseCompOpSingleIs(t *testing.T) {
	src := `comp_op: '<' | '>' | '==' | 'is' | 'is' 'not' | 'not' 'in'`
	g := mustLoadGrammar(t, src, "comp_op")
	p := New(g)

	toks, err := lexerTokenize(t, "is\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	tree, err := p.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("comp_op has %d children, want 1 ('is' alone)", len(root.Children))
	}
}

func TestParseStarAllowsZeroRepetitions(t *testing.T) {
	src := `
expr: xor_expr ('|' xor_expr)*
xor_expr: NAME
`
	g := mustLoadGrammar(t, src, "expr")
	p := New(g)

	toks, err := lexerTokenize(t, "a\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	tree, err := p.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("expr has %d children, want 1 (no trailing | xor_expr)", len(root.Children))
	}
}

func TestParseStarRepeatsMultipleTimes(t *testing.T) {
	src := `
expr: xor_expr ('|' xor_expr)*
xor_expr: NAME
`
	g := mustLoadGrammar(t, src, "expr")
	p := New(g)

	toks, err := lexerTokenize(t, "a | b | c\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	tree, err := p.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Node(tree.Root())
	// Seq and Star are pure connectives, not CST nodes of their own (spec.md
	// §4.4: "concatenate child CST sequences"), so the three xor_expr
	// entries and the two '|' leaves all land as direct, flattened children
	// of "expr".
	wantKinds := []string{"xor_expr", "VBAR", "xor_expr", "VBAR", "xor_expr"}
	if len(root.Children) != len(wantKinds) {
		t.Fatalf("expr has %d children, want %d: %v", len(root.Children), len(wantKinds), wantKinds)
	}
	for i, id := range root.Children {
		if got := tree.Node(id).Kind; got != wantKinds[i] {
			t.Errorf("expr.Children[%d].Kind = %q, want %q", i, got, wantKinds[i])
		}
	}
}

func TestParsePlusRequiresAtLeastOne(t *testing.T) {
	src := `
block: (stmt)+
stmt: NAME
`
	g := mustLoadGrammar(t, src, "block")
	p := New(g)

	toks, err := lexerTokenize(t, "\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if _, err := p.Parse(toks); err == nil {
		t.Fatalf("expected parse failure: Plus matched zero repetitions")
	}
}

func TestParseOptSkipsWhenAbsent(t *testing.T) {
	src := `suite: [NEWLINE] NAME`
	g := mustLoadGrammar(t, src, "suite")
	p := New(g)

	toks, err := lexerTokenize(t, "pass\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	// suite only consumes the leading NAME; the trailing NEWLINE from the
	// tokenizer is simply left unconsumed by this deliberately partial
	// grammar, which is fine since Parse only requires the start symbol to
	// match a prefix rooted at position 0.
	tree, err := p.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Node(tree.Root())
	if len(root.Children) != 1 {
		t.Fatalf("suite has %d children, want 1 (NEWLINE absent)", len(root.Children))
	}
}

func TestParseFailureReportsNoPanic(t *testing.T) {
	g := mustLoadGrammar(t, `a: NUMBER`, "a")
	p := New(g)

	toks, err := lexerTokenize(t, "x\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if _, err := p.Parse(toks); err == nil {
		t.Fatalf("expected parse failure: NAME does not satisfy NUMBER")
	}
}

func TestParseNameLiteralExcludesGenericKeyword(t *testing.T) {
	// 'def' must be recognized as the keyword literal, not folded into a
	// generic NAME leaf appearing elsewhere in the same alternative.
	src := `stmt: 'def' NAME`
	g := mustLoadGrammar(t, src, "stmt")
	p := New(g)

	toks, err := lexerTokenize(t, "def foo\n")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	tree, err := p.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := leafTexts(tree, tree.Root())
	if got[0] != "def" || got[1] != "foo" {
		t.Errorf("leaf texts = %v, want [def foo]", got)
	}
}
