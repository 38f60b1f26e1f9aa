package grammar

import "testing"

func TestFirstOfTerminal(t *testing.T) {
	g := mustLoad(t, `a: NAME`, "a")
	ft := NewFirstTable(g)
	first := ft.FirstOf("a")
	if !first.Has("NAME") || len(first) != 1 {
		t.Errorf("FirstOf(a) = %v, want {NAME}", first)
	}
}

func TestFirstPropagatesThroughStar(t *testing.T) {
	src := `
expr: xor_expr ('|' xor_expr)*
xor_expr: NAME
`
	g := mustLoad(t, src, "expr")
	ft := NewFirstTable(g)
	exprFirst := ft.FirstOf("expr")
	xorFirst := ft.FirstOf("xor_expr")
	if !setsEqual(exprFirst, xorFirst) {
		t.Errorf("FIRST(expr) = %v, want FIRST(xor_expr) = %v", exprFirst, xorFirst)
	}
}

func TestFirstOpt(t *testing.T) {
	src := `suite: [NEWLINE] NAME`
	g := mustLoad(t, src, "suite")
	ft := NewFirstTable(g)
	first := ft.FirstOf("suite")
	if !first.Has("NEWLINE") || !first.Has("NAME") {
		t.Errorf("FIRST(suite) = %v, want to contain NEWLINE and NAME", first)
	}
	if first.Has(EPS) {
		t.Errorf("FIRST(suite) = %v, should not contain EPS (NAME is mandatory)", first)
	}
}

func TestFirstSeqAllNullableAddsEPS(t *testing.T) {
	src := `
a: [NAME] [NUMBER]
`
	g := mustLoad(t, src, "a")
	ft := NewFirstTable(g)
	first := ft.FirstOf("a")
	if !first.Has(EPS) {
		t.Errorf("FIRST(a) = %v, want to contain EPS", first)
	}
	if !first.Has("NAME") || !first.Has("NUMBER") {
		t.Errorf("FIRST(a) = %v, want to contain NAME and NUMBER", first)
	}
}

func TestFirstPlusExcludesEPSWhenChildNotNullable(t *testing.T) {
	src := `
block: (stmt)+
stmt: NAME
`
	g := mustLoad(t, src, "block")
	ft := NewFirstTable(g)
	first := ft.FirstOf("block")
	if first.Has(EPS) {
		t.Errorf("FIRST(block) = %v, should not contain EPS: a Plus over a non-nullable child cannot match zero repetitions", first)
	}
	if !first.Has("NAME") {
		t.Errorf("FIRST(block) = %v, want NAME", first)
	}
}

func TestFirstPlusKeepsEPSWhenChildIsNullable(t *testing.T) {
	src := `
block: (opt_stmt)+
opt_stmt: [NAME]
`
	g := mustLoad(t, src, "block")
	ft := NewFirstTable(g)
	first := ft.FirstOf("block")
	if !first.Has(EPS) {
		t.Errorf("FIRST(block) = %v, want EPS since opt_stmt is nullable", first)
	}
}

func TestFirstIsStableAcrossRepeatedQueries(t *testing.T) {
	g := mustLoad(t, `a: NAME | NUMBER`, "a")
	ft := NewFirstTable(g)
	first1 := ft.FirstOf("a")
	first2 := ft.FirstOf("a")
	if !setsEqual(first1, first2) {
		t.Errorf("FirstOf(a) not stable across queries: %v vs %v", first1, first2)
	}
}

func setsEqual(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}
	for x := range a {
		if !b.Has(x) {
			return false
		}
	}
	return true
}
