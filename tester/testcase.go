package tester

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
)

// TestCase is one fixture: a free-text description, the Python source to
// feed the tokenizer and parser, and the expected CST shape.
type TestCase struct {
	Description string
	Source      []byte
	Output      *Tree
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

// ParseTestCase reads a fixture file split into exactly three `---`-delimited
// parts: description, source, expected tree (spec.md §8's example format,
// reworked as a parenthesized tree rather than vartan's own bootstrap
// grammar, so that reading a fixture does not require running this
// project's own parser on itself).
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("a test case needs exactly 3 '---'-delimited parts (description, source, tree); found %v", len(parts))
	}

	tree, err := ParseExpectedTree(parts[2])
	if err != nil {
		return nil, fmt.Errorf("expected tree: %w", err)
	}

	return &TestCase{
		Description: string(bytes.TrimSpace(parts[0])),
		Source:      parts[1],
		Output:      tree.Fill(),
	}, nil
}

func splitIntoParts(r io.Reader) ([][]byte, error) {
	var parts [][]byte
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cur bytes.Buffer
	first := true
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			parts = append(parts, append([]byte{}, cur.Bytes()...))
			cur.Reset()
			first = true
			continue
		}
		if !first {
			cur.WriteByte('\n')
		}
		cur.Write(line)
		first = false
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	parts = append(parts, append([]byte{}, cur.Bytes()...))
	return parts, nil
}
