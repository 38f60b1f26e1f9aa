package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/nihei9/pyfront/lexer"
	"github.com/nihei9/pyfront/token"
	"github.com/spf13/cobra"
)

var tokenizeFlags = struct {
	source *string
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize",
		Short:   "Tokenize a source file",
		Example: `  cat src.py | pyfront tokenize`,
		Args:    cobra.NoArgs,
		RunE:    runTokenize,
	}
	tokenizeFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	tokenizeFlags.format = cmd.Flags().StringP("format", "f", "text", "output format: one of text|json")
	rootCmd.AddCommand(cmd)
}

type jsonToken struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal,omitempty"`
	Line    int    `json:"line"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func runTokenize(cmd *cobra.Command, args []string) (retErr error) {
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

	if *tokenizeFlags.format != "text" && *tokenizeFlags.format != "json" {
		return fmt.Errorf("invalid output format: %v", *tokenizeFlags.format)
	}

	src, err := readSource(*tokenizeFlags.source)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}

	if *tokenizeFlags.format == "json" {
		return writeTokensJSON(os.Stdout, toks)
	}
	writeTokensText(os.Stdout, toks)
	return nil
}

func readSource(path string) ([]byte, error) {
	if path == "" {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("cannot read stdin: %w", err)
		}
		return src, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the source file %s: %w", path, err)
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read the source file %s: %w", path, err)
	}
	return src, nil
}

func writeTokensText(w io.Writer, toks []token.Token) {
	for _, t := range toks {
		if lit, ok := t.Literal(); ok {
			fmt.Fprintf(w, "%4v %-12v %#v\n", t.Line, t.Kind, lit)
		} else {
			fmt.Fprintf(w, "%4v %-12v\n", t.Line, t.Kind)
		}
	}
}

func writeTokensJSON(w io.Writer, toks []token.Token) error {
	jts := make([]jsonToken, len(toks))
	for i, t := range toks {
		lit, _ := t.Literal()
		jts[i] = jsonToken{Kind: t.Kind.String(), Literal: lit, Line: t.Line, Start: t.Start, End: t.End}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jts)
}
