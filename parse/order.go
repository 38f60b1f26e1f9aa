package parse

import (
	"sort"

	"github.com/nihei9/pyfront/grammar"
)

// altKey is the ranking tuple from spec.md §4.4: (has_no_eps,
// longest_possible_span, is_not_generic_name_leading). The first and third
// fields are 1 when the alternative ranks "ahead" under that criterion, 0
// otherwise; the second is the alternative's grammar.LongestSeq span. A
// larger tuple sorts first under plain descending lexicographic comparison.
type altKey [3]int

func lessDesc(a, b altKey) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// orderCache memoizes the alternative trial order for each Alt node,
// computed once from the grammar's FIRST table (spec.md §3: FIRST never
// changes during a parse, so the order is a pure function of the grammar).
type orderCache struct {
	first *grammar.FirstTable
	order map[*grammar.Node][]int
}

func newOrderCache(first *grammar.FirstTable) *orderCache {
	return &orderCache{first: first, order: map[*grammar.Node][]int{}}
}

// orderOf returns the indices of n.Children in the order they should be
// tried, per the ranking tuple above.
func (oc *orderCache) orderOf(n *grammar.Node) []int {
	if o, ok := oc.order[n]; ok {
		return o
	}

	keys := make([]altKey, len(n.Children))
	for i, c := range n.Children {
		f := oc.first.First(c)
		hasNoEPS := 0
		if !f.Has(grammar.EPS) {
			hasNoEPS = 1
		}
		notNameLeading := 0
		if !f.Has("NAME") {
			notNameLeading = 1
		}
		keys[i] = altKey{hasNoEPS, grammar.LongestSeq(c), notNameLeading}
	}

	idx := make([]int, len(n.Children))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return lessDesc(keys[idx[i]], keys[idx[j]])
	})

	oc.order[n] = idx
	return idx
}
