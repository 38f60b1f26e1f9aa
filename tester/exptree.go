package tester

import (
	"fmt"
	"strconv"
)

// ParseExpectedTree parses the small parenthesized tree notation used by
// test fixtures: `(kind child...)` for an interior node, `(kind "lexeme")`
// for a leaf. Kind is a bare word; lexeme is a Go-quoted string so tab,
// newline, and quote characters inside a token's literal text round-trip
// exactly.
func ParseExpectedTree(src []byte) (*Tree, error) {
	p := &expParser{src: src}
	p.skipSpace()
	t, err := p.parseTree()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("offset %d: trailing input after tree", p.pos)
	}
	return t, nil
}

type expParser struct {
	src []byte
	pos int
}

func (p *expParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *expParser) parseTree() (*Tree, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return nil, fmt.Errorf("offset %d: expected '('", p.pos)
	}
	p.pos++
	p.skipSpace()

	kind, err := p.parseKind()
	if err != nil {
		return nil, err
	}

	var children []*Tree
	var lexeme string
	isLeaf := false
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("offset %d: unterminated tree", p.pos)
		}
		switch p.src[p.pos] {
		case ')':
			p.pos++
			if isLeaf {
				return NewTerminalTree(kind, lexeme), nil
			}
			return NewNonTerminalTree(kind, children...), nil
		case '"':
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}
			isLeaf = true
			lexeme = s
		case '(':
			child, err := p.parseTree()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		default:
			return nil, fmt.Errorf("offset %d: expected ')', '\"', or '('", p.pos)
		}
	}
}

func (p *expParser) parseKind() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && !isKindBoundary(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("offset %d: expected a kind name", start)
	}
	return string(p.src[start:p.pos]), nil
}

func isKindBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '(', ')', '"':
		return true
	}
	return false
}

func (p *expParser) parseString() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case '"':
			p.pos++
			return strconv.Unquote(string(p.src[start:p.pos]))
		default:
			p.pos++
		}
	}
	return "", fmt.Errorf("offset %d: unterminated string", start)
}
