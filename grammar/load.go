package grammar

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nihei9/pyfront/perr"
	"github.com/nihei9/pyfront/token"
)

// Grammar is the set of productions loaded from a meta-grammar file (spec.md
// §3): nonterminal name -> grammar tree, the set of special literal
// terminals appearing anywhere, and the declared start symbol.
type Grammar struct {
	Productions      map[string]*Node
	Order            []string // production names in file order, for stable iteration
	SpecialTerminals map[string]struct{}
	Start            string
}

// item is either a string grammar-body token or an already-resolved *Node
// (produced by the shape-recognition loop resolving a nested bracket group).
type item interface{}

// Load reads a meta-grammar file (spec.md §4.2/§6) and returns its Grammar.
// start is the declared start symbol (spec.md's reference grammar always
// uses "file_input"; callers of this package choose their own).
func Load(r io.Reader, start string) (*Grammar, error) {
	lines, err := reassembleLines(r)
	if err != nil {
		return nil, err
	}

	g := &Grammar{
		Productions:      map[string]*Node{},
		SpecialTerminals: map[string]struct{}{},
		Start:            start,
	}

	for lineNo, line := range lines {
		name, body, err := splitProductionHeader(line.text)
		if err != nil {
			return nil, perr.New(err, line.num, 0)
		}
		tokens, err := tokenizeBody(body)
		if err != nil {
			return nil, perr.New(err, line.num, 0)
		}
		items := make([]item, len(tokens))
		for i, t := range tokens {
			items[i] = t
		}
		tree, err := buildTree(items)
		if err != nil {
			return nil, perr.New(err, line.num, 0)
		}
		if _, dup := g.Productions[name]; dup {
			return nil, perr.New(fmt.Errorf("duplicate production: %v", name), line.num, 0)
		}
		g.Productions[name] = tree
		g.Order = append(g.Order, name)
		_ = lineNo
	}

	for _, name := range g.Order {
		collectSpecialTerminals(g.Productions[name], g.SpecialTerminals)
	}

	if err := g.validateReferences(); err != nil {
		return nil, err
	}

	return g, nil
}

type logicalLine struct {
	text string
	num  int
}

// reassembleLines implements spec.md §4.2's file lexing: blank and
// fully-commented lines are dropped, an in-line "#" truncates the rest of
// the line, and lines beginning with whitespace continue the preceding
// production.
func reassembleLines(r io.Reader) ([]logicalLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []logicalLine
	var cur strings.Builder
	curLine := 0
	have := false

	flush := func() {
		if have {
			out = append(out, logicalLine{text: cur.String(), num: curLine})
			cur.Reset()
			have = false
		}
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		stripped := strings.TrimSpace(raw)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		line := raw
		if idx := strings.IndexByte(line, '#'); idx != -1 {
			line = line[:idx]
		}

		if len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t') {
			if !have {
				return nil, perr.New(fmt.Errorf("continuation line has no preceding production"), lineNo, 0)
			}
			cur.WriteByte(' ')
			cur.WriteString(strings.TrimSpace(line))
		} else {
			flush()
			cur.WriteString(strings.TrimRight(line, " \t"))
			curLine = lineNo
			have = true
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitProductionHeader splits a reassembled logical line "NAME : body"
// into its nonterminal name and body text.
func splitProductionHeader(line string) (name, body string, err error) {
	i := 0
	for i < len(line) && isNonterminalChar(line[i]) {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != ':' {
		return "", "", fmt.Errorf("invalid production header: %q", line)
	}
	return line[:i], line[i+1:], nil
}

func isNonterminalChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

// tokenizeBody implements spec.md §4.2's body tokenization: bare
// identifiers, single-character meta symbols, and single-quoted literals.
// Whitespace is ignored; a missing closing quote is an error.
func tokenizeBody(body string) ([]string, error) {
	var out []string
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isNonterminalChar(c):
			start := i
			for i < len(body) && isNonterminalChar(body[i]) {
				i++
			}
			out = append(out, body[start:i])
		case strings.ContainsRune("[]()*+|", rune(c)):
			out = append(out, string(c))
			i++
		case c == '\'':
			start := i
			i++
			for i < len(body) && body[i] != '\'' {
				i++
			}
			if i >= len(body) {
				return nil, fmt.Errorf("unterminated quoted literal in production body")
			}
			i++ // consume closing quote
			out = append(out, body[start:i])
		default:
			return nil, fmt.Errorf("unexpected character %q in production body", c)
		}
	}
	return out, nil
}

// splitAlternatives splits items at top-level '|' tokens, respecting
// nesting induced by '[' / ']' and '(' / ')' (spec.md §4.2, "Alternative
// split").
func splitAlternatives(items []item) [][]item {
	depth := 0
	var out [][]item
	start := 0
	for i, it := range items {
		s, isStr := it.(string)
		if !isStr {
			continue
		}
		switch s {
		case "[", "(":
			depth++
		case "]", ")":
			depth--
		case "|":
			if depth == 0 {
				out = append(out, items[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, items[start:])
	return out
}

type bracketMark struct {
	ch  byte
	idx int
}

// buildTree implements spec.md §4.2's tree construction: alternative split,
// then shape recognition over a single alternative using a bracket stack.
func buildTree(items []item) (*Node, error) {
	parts := splitAlternatives(items)
	if len(parts) > 1 {
		children := make([]*Node, len(parts))
		for i, p := range parts {
			c, err := buildTree(p)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		return NewAlt(children), nil
	}

	p := append([]item{}, parts[0]...)
	var stack []bracketMark
	i := 0
	for i < len(p) {
		s, isStr := p[i].(string)
		if isStr {
			switch {
			case s == "[" || s == "(":
				stack = append(stack, bracketMark{ch: s[0], idx: i})
			case s == "]" || s == ")":
				if len(stack) == 0 {
					return nil, fmt.Errorf("unbalanced %q", s)
				}
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if (s == "]") != (open.ch == '[') {
					return nil, fmt.Errorf("mismatched bracket: %q closes %q", s, string(open.ch))
				}

				inner := append([]item{}, p[open.idx+1:i]...)
				w, err := buildTree(inner)
				if err != nil {
					return nil, err
				}

				switch s {
				case "]":
					p = splice(p, open.idx, i+1, NewOpt(w))
					i = open.idx
				default: // ")"
					if i+1 < len(p) {
						if next, ok := p[i+1].(string); ok && next == "*" {
							p = splice(p, open.idx, i+2, NewStar(w))
							i = open.idx
						} else if ok && next == "+" {
							p = splice(p, open.idx, i+2, NewPlus(w))
							i = open.idx
						} else {
							p = splice(p, open.idx, i+1, w)
							i = open.idx
						}
					} else {
						p = splice(p, open.idx, i+1, w)
						i = open.idx
					}
				}
			case s == "*" || s == "+":
				if i == 0 {
					return nil, fmt.Errorf("%q with no preceding atom", s)
				}
				atom := asNode(p[i-1])
				var wrapped *Node
				if s == "*" {
					wrapped = NewStar(NewSeq([]*Node{atom}))
				} else {
					wrapped = NewPlus(NewSeq([]*Node{atom}))
				}
				p = splice(p, i-1, i+1, wrapped)
				i = i - 1
			}
		}
		i++
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("unbalanced bracket in production body")
	}

	children := make([]*Node, len(p))
	for i, it := range p {
		children[i] = asNode(it)
	}
	return NewSeq(children), nil
}

func asNode(it item) *Node {
	if n, ok := it.(*Node); ok {
		return n
	}
	return NewLeaf(it.(string))
}

func splice(p []item, start, end int, n *Node) []item {
	out := make([]item, 0, len(p)-(end-start)+1)
	out = append(out, p[:start]...)
	out = append(out, item(n))
	out = append(out, p[end:]...)
	return out
}

// collectSpecialTerminals walks a grammar tree collecting every quoted
// literal leaf (spec.md §4.2's "special-terminals set").
func collectSpecialTerminals(n *Node, out map[string]struct{}) {
	switch n.Kind {
	case KindLeaf:
		if IsQuotedLiteral(n.Leaf) {
			out[n.Leaf] = struct{}{}
		}
	case KindSeq, KindAlt:
		for _, c := range n.Children {
			collectSpecialTerminals(c, out)
		}
	case KindOpt, KindStar, KindPlus:
		collectSpecialTerminals(n.Child, out)
	}
}

// validateReferences checks that every nonterminal referenced from any tree
// has a defining key (spec.md §3's grammar invariant).
func (g *Grammar) validateReferences() error {
	var missing []string
	seen := map[string]struct{}{}
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Kind {
		case KindLeaf:
			if g.IsNonterminal(n.Leaf) {
				return
			}
			if IsQuotedLiteral(n.Leaf) {
				return
			}
			if _, ok := token.KindByName(n.Leaf); ok {
				return
			}
			if _, ok := seen[n.Leaf]; !ok {
				seen[n.Leaf] = struct{}{}
				missing = append(missing, n.Leaf)
			}
		case KindSeq, KindAlt:
			for _, c := range n.Children {
				walk(c)
			}
		case KindOpt, KindStar, KindPlus:
			walk(n.Child)
		}
	}
	for _, name := range g.Order {
		walk(g.Productions[name])
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("undeclared nonterminal(s) or unknown terminal-kind name(s): %v", missing)
	}
	if _, ok := g.Productions[g.Start]; !ok {
		return fmt.Errorf("start symbol %q has no production", g.Start)
	}
	return nil
}

// IsNonterminal reports whether X is a key in the grammar map.
func (g *Grammar) IsNonterminal(x string) bool {
	_, ok := g.Productions[x]
	return ok
}

// IsTerminal reports whether X is a terminal-kind name or a quoted literal.
func (g *Grammar) IsTerminal(x string) bool {
	if IsQuotedLiteral(x) {
		return true
	}
	_, ok := token.KindByName(x)
	return ok
}
