package parse

import "github.com/nihei9/pyfront/token"

// cursor is the single mutable position into the token array that the whole
// recursive descent shares (spec.md §4.4, §5: "a single mutable cursor").
// Backtracking restores pos; it never touches the token array itself.
type cursor struct {
	toks    []token.Token
	pos     int
	special map[string]struct{} // grammar's special-terminals set, quoted form
}

func newCursor(toks []token.Token, special map[string]struct{}) *cursor {
	return &cursor{toks: toks, pos: 0, special: special}
}

// peek returns the current token. It panics if called past the final
// ENDMARKER. The cursor only gets there by consuming ENDMARKER itself, so
// this happens only when a production expects more input after ENDMARKER.
func (c *cursor) peek() token.Token {
	if c.pos >= len(c.toks) {
		panic("parse: cursor past ENDMARKER")
	}
	return c.toks[c.pos]
}

// get returns the current token and advances the cursor.
func (c *cursor) get() token.Token {
	tok := c.peek()
	c.pos++
	return tok
}

// isSpecial reports whether the quoted form of text names a special
// terminal declared somewhere in the grammar.
func (c *cursor) isSpecial(text string) bool {
	if text == "" {
		return false
	}
	_, ok := c.special["'"+text+"'"]
	return ok
}

// testKind implements test(kind) with no literal: matches bare kind, except
// that a generic NAME test excludes identifiers whose text is itself a
// special terminal (spec.md §4.4), so a bare NAME leaf in a production never
// incidentally swallows a keyword-like literal such as 'def'.
func (c *cursor) testKind(kind token.Kind) bool {
	tok := c.peek()
	if tok.Kind != kind {
		return false
	}
	if kind == token.NAME && c.isSpecial(tok.Text()) {
		return false
	}
	return true
}

// testLiteral implements test(kind, name): matches kind and literal text.
// There is no special-terminal exclusion here; matching a literal is always
// the point of the call.
func (c *cursor) testLiteral(kind token.Kind, literal string) bool {
	tok := c.peek()
	return tok.Kind == kind && tok.Text() == literal
}

// peekGStr returns the set of strings the current token could satisfy:
// always the token's kind name, plus the quoted literal form when the
// token's text is non-empty and that quoted form is a special terminal
// (spec.md §4.4's peek_gstr). A NAME token with text "foo" never yields
// "'foo'" unless 'foo' is actually declared as a grammar literal somewhere.
func (c *cursor) peekGStr() map[string]struct{} {
	tok := c.peek()
	out := map[string]struct{}{tok.Kind.String(): {}}
	if text := tok.Text(); text != "" {
		q := "'" + text + "'"
		if _, ok := c.special[q]; ok {
			out[q] = struct{}{}
		}
	}
	return out
}
