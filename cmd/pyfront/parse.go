package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/nihei9/pyfront/driver"
	"github.com/nihei9/pyfront/grammar"
	"github.com/nihei9/pyfront/lexer"
	"github.com/nihei9/pyfront/parse"
	"github.com/nihei9/pyfront/tester"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	start  *string
	format *string
}{}

const (
	outputFormatText = "text"
	outputFormatTree = "tree"
	outputFormatJSON = "json"
)

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a source against a grammar file",
		Example: `  cat src.py | pyfront parse python.grammar`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.start = cmd.Flags().String("start", "file_input", "start symbol")
	parseFlags.format = cmd.Flags().StringP("format", "f", "text", "output format: one of text|tree|json")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		panicked := false
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}
			retErr = err
			panicked = true
		}
		if retErr != nil {
			if panicked {
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
			} else {
				fmt.Fprintf(os.Stderr, "%v\n", retErr)
			}
		}
	}()

	if *parseFlags.format != outputFormatText &&
		*parseFlags.format != outputFormatTree &&
		*parseFlags.format != outputFormatJSON {
		return fmt.Errorf("invalid output format: %v", *parseFlags.format)
	}

	g, err := readGrammar(args[0], *parseFlags.start)
	if err != nil {
		return fmt.Errorf("cannot read a grammar: %w", err)
	}

	src, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}

	tree, err := parse.New(g).Parse(toks)
	if err != nil {
		return err
	}

	switch *parseFlags.format {
	case outputFormatJSON:
		return driver.WriteJSON(os.Stdout, tree, tree.Root())
	case outputFormatTree:
		b := tester.GenTree(tree, tree.Root()).Fill().Format()
		fmt.Fprintln(os.Stdout, string(b))
	default:
		driver.PrintTree(os.Stdout, tree, tree.Root())
	}
	return nil
}

func readGrammar(path string, start string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()
	return grammar.Load(f, start)
}
