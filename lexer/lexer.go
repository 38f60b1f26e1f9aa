// Package lexer implements the Python lexical analyzer (spec.md §4.1):
// encoding detection, INDENT/DEDENT reconstruction, bracket-suppressed
// newlines, multi-prefix string literals, and maximal-munch operators.
package lexer

import (
	"fmt"
	"strings"

	"github.com/nihei9/pyfront/perr"
	"github.com/nihei9/pyfront/token"
)

const whitespace = " \t"

// stringPrefixes is the set of recognized prefix+quote combinations a
// string literal may open with, longest first so a scan of the input at a
// given position tries the longest candidate first (e.g. `rb"` before `r"`).
var stringPrefixes []string

func init() {
	prefixes1 := []string{"r", "R", "u", "U", "b", "B", "br", "bR", "Br", "BR", "rb", "rB", "Rb", "RB"}
	quotes := []string{`"""`, `'''`, `"`, `'`}

	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			stringPrefixes = append(stringPrefixes, s)
		}
	}
	for _, p := range prefixes1 {
		for _, q := range quotes {
			add(p + q)
		}
	}
	for _, q := range quotes {
		add(q)
	}

	// Longest spelling first (maximal munch).
	for i := 0; i < len(stringPrefixes); i++ {
		for j := i + 1; j < len(stringPrefixes); j++ {
			if len(stringPrefixes[j]) > len(stringPrefixes[i]) {
				stringPrefixes[i], stringPrefixes[j] = stringPrefixes[j], stringPrefixes[i]
			}
		}
	}
}

func matchStringPrefix(s string) (prefix string, ok bool) {
	for _, p := range stringPrefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isBinDigit(b byte) bool { return b == '0' || b == '1' }
func isOctDigit(b byte) bool { return b >= '0' && b <= '7' }
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentStart(b byte) bool { return isLetter(b) || b == '_' }
func isIdentCont(b byte) bool  { return isIdentStart(b) || isDigit(b) }

type lexer struct {
	src       string
	pos       int
	line      int
	level     int
	lineStart bool
	indents   []int
	toks      []token.Token
}

// Tokenize converts raw bytes into an ordered, finite token sequence,
// including synthetic INDENT/DEDENT/NEWLINE/ENDMARKER tokens. Offsets in the
// returned tokens are byte offsets into the decoded (UTF-8) source text, not
// into the original (possibly UTF-16/32) input bytes.
func Tokenize(src []byte) ([]token.Token, error) {
	text, err := Decode(src)
	if err != nil {
		return nil, err
	}
	return TokenizeString(text)
}

// TokenizeString tokenizes already-decoded UTF-8 text. Use Tokenize when the
// input may carry a BOM or PEP-263 magic comment naming a non-UTF-8
// encoding.
func TokenizeString(text string) ([]token.Token, error) {
	l := &lexer{
		src:       text,
		line:      1,
		lineStart: true,
		indents:   []int{0},
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.toks, nil
}

func (l *lexer) fail(format string, args ...interface{}) error {
	return perr.New(fmt.Errorf(format, args...), l.line, l.pos)
}

func (l *lexer) emit(tok token.Token) {
	l.toks = append(l.toks, tok)
}

func (l *lexer) lastKind() (token.Kind, bool) {
	if len(l.toks) == 0 {
		return 0, false
	}
	return l.toks[len(l.toks)-1].Kind, true
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t':
			if err := l.scanWhitespace(); err != nil {
				return err
			}
		case c == '\n':
			l.scanNewline()
		case l.lineStart:
			// A non-whitespace, non-newline character at the start of a
			// logical line: pop every remaining indent level (spec.md
			// §4.1's third bullet covers this implicitly via the
			// whitespace branch; a line that starts with a non-blank,
			// non-indented character closes out any open indents).
			l.lineStart = false
			for l.indents[len(l.indents)-1] > 0 {
				l.indents = l.indents[:len(l.indents)-1]
				l.emit(token.NewSynthetic(token.DEDENT, l.pos, l.pos, l.line))
			}
		case c == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '\n':
			l.pos += 2
			l.line++
		case c == '#':
			l.scanComment()
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			if err := l.scanNumber(); err != nil {
				return err
			}
		default:
			if spelling, kind, ok := token.MatchOperator(l.src[l.pos:min(l.pos+3, len(l.src))]); ok {
				l.scanOperator(spelling, kind)
			} else if prefix, ok := matchStringPrefix(l.src[l.pos:]); ok {
				if err := l.scanString(prefix); err != nil {
					return err
				}
			} else if isIdentStart(c) {
				l.scanIdentifier()
			} else {
				return l.fail("unknown token")
			}
		}
	}

	for l.indents[len(l.indents)-1] > 0 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(token.NewSynthetic(token.DEDENT, l.pos, l.pos, l.line))
	}
	l.emit(token.NewSynthetic(token.ENDMARKER, l.pos, l.pos, l.line))
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (l *lexer) scanWhitespace() error {
	start := l.pos
	p := l.pos
	for p < len(l.src) && (l.src[p] == ' ' || l.src[p] == '\t') {
		p++
	}

	if !l.lineStart {
		l.pos = p
		return nil
	}

	l.lineStart = false
	if p < len(l.src) && (l.src[p] == '#' || l.src[p] == '\n' || l.src[p] == '\\') {
		// Blank (or comment-only) line: no INDENT/DEDENT, let the
		// subsequent branch handle the comment/continuation/newline.
		l.pos = p
		return nil
	}

	width := p - start
	if l.level == 0 {
		top := l.indents[len(l.indents)-1]
		if width > top {
			l.indents = append(l.indents, width)
			l.emit(token.NewSynthetic(token.INDENT, start, p, l.line))
		} else {
			for width < l.indents[len(l.indents)-1] {
				l.indents = l.indents[:len(l.indents)-1]
				l.emit(token.NewSynthetic(token.DEDENT, start, p, l.line))
			}
		}
	}
	l.pos = p
	return nil
}

func (l *lexer) scanNewline() {
	lastKind, hasLast := l.lastKind()
	if l.level == 0 && !l.lineStart && hasLast && lastKind != token.NEWLINE {
		l.emit(token.New(token.NEWLINE, l.pos, l.pos+1, l.line, "\n"))
	}
	l.line++
	if l.level == 0 {
		l.lineStart = true
	}
	l.pos++
}

func (l *lexer) scanComment() {
	p := l.pos
	for p < len(l.src) && l.src[p] != '\n' {
		p++
	}
	l.pos = p
}

func (l *lexer) scanNumber() error {
	start := l.pos
	p := l.pos

	if l.src[p] == '0' && p+1 < len(l.src) && strings.ContainsRune("xXbBoO", rune(l.src[p+1])) {
		kind := l.src[p+1]
		p += 2
		switch {
		case kind == 'x' || kind == 'X':
			for p < len(l.src) && isHexDigit(l.src[p]) {
				p++
			}
		case kind == 'b' || kind == 'B':
			for p < len(l.src) && isBinDigit(l.src[p]) {
				p++
			}
		case kind == 'o' || kind == 'O':
			for p < len(l.src) && isOctDigit(l.src[p]) {
				p++
			}
		}
	} else {
		for p < len(l.src) && isDigit(l.src[p]) {
			p++
		}
		if p < len(l.src) && l.src[p] == '.' {
			p++
			for p < len(l.src) && isDigit(l.src[p]) {
				p++
			}
		}
		if p < len(l.src) && (l.src[p] == 'e' || l.src[p] == 'E') {
			q := p + 1
			if q < len(l.src) && (l.src[q] == '+' || l.src[q] == '-') {
				q++
			}
			if q >= len(l.src) || !isDigit(l.src[q]) {
				l.pos = q
				return l.fail("malformed exponent in numeric literal")
			}
			for q < len(l.src) && isDigit(l.src[q]) {
				q++
			}
			p = q
		}
		if p < len(l.src) && (l.src[p] == 'j' || l.src[p] == 'J') {
			p++
		}
	}

	l.emit(token.New(token.NUMBER, start, p, l.line, l.src[start:p]))
	l.pos = p
	return nil
}

func (l *lexer) scanOperator(spelling string, kind token.Kind) {
	start := l.pos
	l.emit(token.New(kind, start, start+len(spelling), l.line, spelling))
	l.pos += len(spelling)

	if len(spelling) == 1 {
		switch spelling {
		case "(", "[", "{":
			l.level++
		case ")", "]", "}":
			l.level--
		}
	}
}

func (l *lexer) scanString(prefix string) error {
	start := l.pos
	p := l.pos + len(prefix)

	var quote string
	switch {
	case strings.HasSuffix(prefix, "'''"):
		quote = "'''"
	case strings.HasSuffix(prefix, `"""`):
		quote = `"""`
	case strings.HasSuffix(prefix, `"`):
		quote = `"`
	case strings.HasSuffix(prefix, "'"):
		quote = "'"
	default:
		return l.fail("malformed string prefix")
	}

	if len(quote) == 1 {
		for p < len(l.src) && l.src[p] != '\n' && string(l.src[p]) != quote {
			p++
		}
		if p >= len(l.src) || l.src[p] == '\n' {
			l.pos = p
			return l.fail("EOL while scanning string literal")
		}
		p++ // consume closing quote
	} else {
		for p < len(l.src) && !strings.HasPrefix(l.src[p:], quote) {
			if l.src[p] == '\n' {
				l.line++
			}
			p++
		}
		if p >= len(l.src) {
			l.pos = p
			return l.fail("unterminated triple-quoted string literal")
		}
		p += len(quote)
	}

	l.emit(token.New(token.STRING, start, p, l.line, l.src[start:p]))
	l.pos = p
	return nil
}

func (l *lexer) scanIdentifier() {
	start := l.pos
	p := l.pos
	for p < len(l.src) && isIdentCont(l.src[p]) {
		p++
	}
	l.emit(token.New(token.NAME, start, p, l.line, l.src[start:p]))
	l.pos = p
}
