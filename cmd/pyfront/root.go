package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pyfront",
	Short: "Tokenize and parse a Python-like source against an EBNF grammar",
	Long: `pyfront is a front end for a Python-style language: a tokenizer that
reconstructs INDENT/DEDENT from physical indentation and a predictive
recursive-descent parser driven directly by an EBNF grammar file, with
no intermediate parsing table.`,

	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, printing any returned error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
