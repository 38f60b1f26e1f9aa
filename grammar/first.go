package grammar

// EPS is the sentinel indicating a node can derive the empty string.
const EPS = "EPS"

// Set is a set of FIRST-set elements: terminal-kind names, quoted literals,
// or the EPS sentinel.
type Set map[string]struct{}

func newSet(items ...string) Set {
	s := make(Set, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}
	return s
}

// Has reports whether x is in the set.
func (s Set) Has(x string) bool {
	_, ok := s[x]
	return ok
}

// Add inserts x into the set, returning whether it was newly added.
func (s Set) Add(x string) bool {
	if _, ok := s[x]; ok {
		return false
	}
	s[x] = struct{}{}
	return true
}

// UnionInto merges other into s in place.
func (s Set) UnionInto(other Set) {
	for x := range other {
		s[x] = struct{}{}
	}
}

// WithoutEPS returns a copy of s with the EPS sentinel removed.
func (s Set) WithoutEPS() Set {
	out := make(Set, len(s))
	for x := range s {
		if x != EPS {
			out[x] = struct{}{}
		}
	}
	return out
}

// IsDisjoint reports whether s and other share no elements.
func (s Set) IsDisjoint(other Set) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for x := range small {
		if _, ok := big[x]; ok {
			return false
		}
	}
	return true
}

// FirstTable computes and memoizes FIRST(X) for every nonterminal of a
// Grammar (spec.md §4.3 and C5). FIRST is computed directly over the EBNF
// tree; there is no flattened-BNF intermediate form.
type FirstTable struct {
	g          *Grammar
	memo       map[string]Set
	inProgress map[string]bool
}

// NewFirstTable builds a FirstTable over g. FIRST sets are computed lazily
// on first query and memoized; once computed, FIRST(X) never changes for
// the lifetime of the table (spec.md §3's invariant).
func NewFirstTable(g *Grammar) *FirstTable {
	return &FirstTable{
		g:          g,
		memo:       map[string]Set{},
		inProgress: map[string]bool{},
	}
}

// FirstOf returns FIRST(name) for a nonterminal or terminal symbol name.
func (t *FirstTable) FirstOf(name string) Set {
	if set, ok := t.memo[name]; ok {
		return set
	}
	if t.g.IsTerminal(name) {
		s := newSet(name)
		t.memo[name] = s
		return s
	}

	// Guard against unbounded recursion on a left-recursive grammar; spec.md
	// §4.3 assumes the grammar is acyclic-on-leftmost and only requires that
	// well-formed input never loops, not that pathological grammars be
	// detected. A symbol already being computed contributes no new FIRST
	// elements to its own computation.
	if t.inProgress[name] {
		return Set{}
	}
	t.inProgress[name] = true
	result := t.First(t.g.Productions[name])
	delete(t.inProgress, name)

	t.memo[name] = result
	return result
}

// First computes FIRST(N) for an arbitrary grammar-tree node (spec.md §4.3).
func (t *FirstTable) First(n *Node) Set {
	switch n.Kind {
	case KindLeaf:
		return t.FirstOf(n.Leaf)

	case KindSeq:
		result := Set{}
		allEPS := true
		for _, c := range n.Children {
			cf := t.First(c)
			if cf.Has(EPS) {
				result.UnionInto(cf.WithoutEPS())
				continue
			}
			result.UnionInto(cf)
			allEPS = false
			break
		}
		if allEPS {
			result.Add(EPS)
		}
		return result

	case KindAlt:
		result := Set{}
		for _, c := range n.Children {
			result.UnionInto(t.First(c))
		}
		return result

	case KindOpt:
		result := Set{EPS: struct{}{}}
		result.UnionInto(t.First(n.Child))
		return result

	case KindStar:
		result := Set{EPS: struct{}{}}
		result.UnionInto(t.First(n.Child))
		return result

	case KindPlus:
		// FIRST(Plus) = FIRST(child): when child is nullable, EPS is kept
		// (one repetition of a nullable child can itself match nothing);
		// when child is not nullable, EPS is already absent from
		// FIRST(child). Either way no extra stripping or adding is needed.
		return t.First(n.Child)
	}
	return Set{}
}

// Compute eagerly computes and returns FIRST(X) for every nonterminal X in
// the grammar, in declaration order.
func (t *FirstTable) Compute() map[string]Set {
	out := make(map[string]Set, len(t.g.Order))
	for _, name := range t.g.Order {
		out[name] = t.FirstOf(name)
	}
	return out
}
