package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/nihei9/pyfront/grammar"
	"github.com/spf13/cobra"
)

var genFlags = struct {
	start *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "gen <grammar file path>",
		Short:   "Generate a readable analysis of a grammar",
		Example: `  pyfront gen python.grammar`,
		Args:    cobra.ExactArgs(1),
		RunE:    runGen,
	}
	genFlags.start = cmd.Flags().String("start", "file_input", "start symbol")
	rootCmd.AddCommand(cmd)
}

// runGen reports what this project's table-driven parser engine computes
// once at construction time instead of the parsing table a code generator
// would otherwise emit: per-nonterminal FIRST sets and, for every
// production whose root is an alternation, the trial order the engine
// derives from them. Alternations nested inside a production are not
// listed. There is no parsing table to generate; the grammar tree itself
// is the program.
func runGen(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0], *genFlags.start)
	if err != nil {
		return fmt.Errorf("cannot read a grammar: %w", err)
	}

	first := grammar.NewFirstTable(g)
	report := buildReport(g, first)
	return writeReport(os.Stdout, report)
}

type reportTerminal struct {
	Names []string
}

type reportProduction struct {
	Name  string
	First reportTerminal
	Alts  []reportAlt // nil for a production whose root is not an alternation
}

type reportAlt struct {
	Index      int
	LongestSeq int
	HasNoEPS   bool
	Summary    string
}

type report struct {
	Start       string
	Productions []reportProduction
}

func buildReport(g *grammar.Grammar, first *grammar.FirstTable) *report {
	r := &report{Start: g.Start}
	for _, name := range g.Order {
		p := reportProduction{
			Name:  name,
			First: reportTerminal{Names: sortedSetNames(first.FirstOf(name))},
		}
		if root := g.Productions[name]; root.Kind == grammar.KindAlt {
			notNameLeading := map[int]bool{}
			for i, c := range root.Children {
				f := first.First(c)
				notNameLeading[i] = !f.Has("NAME")
				p.Alts = append(p.Alts, reportAlt{
					Index:      i,
					LongestSeq: grammar.LongestSeq(c),
					HasNoEPS:   !f.Has(grammar.EPS),
					Summary:    summarizeAlt(c),
				})
			}
			// Same ranking as the parser's Alt ordering: no-EPS first, then
			// longer span, then alternatives whose FIRST lacks NAME.
			sort.SliceStable(p.Alts, func(i, j int) bool {
				a, b := p.Alts[i], p.Alts[j]
				if a.HasNoEPS != b.HasNoEPS {
					return a.HasNoEPS
				}
				if a.LongestSeq != b.LongestSeq {
					return a.LongestSeq > b.LongestSeq
				}
				return notNameLeading[a.Index] && !notNameLeading[b.Index]
			})
		}
		r.Productions = append(r.Productions, p)
	}
	return r
}

func sortedSetNames(s grammar.Set) []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// summarizeAlt renders one alternative's shape back into grammar-body-like
// text, for a human skimming which alternative is which in the trial
// order.
func summarizeAlt(n *grammar.Node) string {
	switch n.Kind {
	case grammar.KindLeaf:
		return n.Leaf
	case grammar.KindSeq:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = summarizeAlt(c)
		}
		return strings.Join(parts, " ")
	case grammar.KindAlt:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = summarizeAlt(c)
		}
		return strings.Join(parts, " | ")
	case grammar.KindOpt:
		return "[" + summarizeAlt(n.Child) + "]"
	case grammar.KindStar:
		return "(" + summarizeAlt(n.Child) + ")*"
	case grammar.KindPlus:
		return "(" + summarizeAlt(n.Child) + ")+"
	}
	return "?"
}

const reportTemplate = `# Start

{{ .Start }}

# Productions

{{ range .Productions -}}
{{ .Name }}
    FIRST: {{ printFirst .First }}
{{ range .Alts -}}
    alt {{ .Index }} [span {{ .LongestSeq }}, no-eps {{ .HasNoEPS }}]: {{ .Summary }}
{{ end }}
{{ end }}`

func writeReport(w io.Writer, r *report) error {
	fns := template.FuncMap{
		"printFirst": func(t reportTerminal) string {
			if len(t.Names) == 0 {
				return "(empty)"
			}
			return strings.Join(t.Names, ", ")
		},
	}
	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
