// Package tester runs fixture-driven parser tests: each fixture names a
// source snippet and the CST shape the parser must produce for it. Adapted
// from the teacher's compiled-grammar test runner to drive this project's
// lexer/grammar/parse packages directly instead of a pre-compiled parsing
// table.
package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/pyfront/cst"
	"github.com/nihei9/pyfront/grammar"
	"github.com/nihei9/pyfront/lexer"
	"github.com/nihei9/pyfront/parse"
)

// TestResult is the outcome of running one fixture.
type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("FAIL %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, d := range r.Diffs {
			diffLines = append(diffLines, d.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, d.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, d.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("PASS %v", r.TestCasePath)
}

// TestCaseWithMetadata pairs a parsed TestCase with the file it came from,
// or the error encountered while reading/parsing that file.
type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases walks testPath (a file or a directory tree) collecting every
// fixture found.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: testPath, Error: err}}
	}
	if !fi.IsDir() {
		c, err := readTestCase(testPath)
		return []*TestCaseWithMetadata{{TestCase: c, FilePath: testPath, Error: err}}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: testPath, Error: err}}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cases = append(cases, ListTestCases(filepath.Join(testPath, e.Name()))...)
	}
	return cases
}

func readTestCase(path string) (*TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

// Tester runs every case in Cases against Grammar.
type Tester struct {
	Grammar *grammar.Grammar
	Cases   []*TestCaseWithMetadata
}

// Run executes every test case, returning one TestResult per case in order.
func (t *Tester) Run() []*TestResult {
	p := parse.New(t.Grammar)
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(p, c))
	}
	return rs
}

func runTest(p *parse.Parser, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: c.Error}
	}

	toks, err := lexer.Tokenize(c.TestCase.Source)
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: err}
	}

	tree, err := p.Parse(toks)
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: err}
	}

	actual := GenTree(tree, tree.Root()).Fill()
	diffs := DiffTree(c.TestCase.Output, actual)
	if len(diffs) > 0 {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("output mismatch"), Diffs: diffs}
	}
	return &TestResult{TestCasePath: c.FilePath}
}

// GenTree converts the arena-based cst.Tree rooted at id into this
// package's own Tree representation, the shape fixtures are authored in.
func GenTree(tree *cst.Tree, id cst.NodeID) *Tree {
	n := tree.Node(id)
	if n.IsLeaf() {
		return NewTerminalTree(n.Kind, n.Tok.Text())
	}
	children := make([]*Tree, len(n.Children))
	for i, c := range n.Children {
		children[i] = GenTree(tree, c)
	}
	return NewNonTerminalTree(n.Kind, children...)
}
