package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/doublelove22/basecode/internal/ast"
	"github.com/doublelove22/basecode/internal/diag"
	"github.com/doublelove22/basecode/internal/lexer"
	"github.com/doublelove22/basecode/internal/parser"
	"github.com/doublelove22/basecode/internal/source"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a source file and dump its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse an inline expression instead of reading a file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readSource(parseExpr, args)
	if err != nil {
		return err
	}
	file := "<stdin>"
	if len(args) > 0 {
		file = args[0]
	} else if parseExpr != "" {
		file = "<eval>"
	}

	result := diag.NewResult()
	p := parser.New(lexer.New(input), result, file)
	program := p.ParseProgram()

	if result.HasErrors() {
		registry := source.NewRegistry()
		registry.RegisterString(file, input)
		return emitDiagnostics(result, registry)
	}

	dumpAST(program, 0)
	return nil
}

func dumpAST(n *ast.Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	text := n.Text()
	if text != "" {
		fmt.Printf("%s%s %q\n", indent, n.Kind, text)
	} else {
		fmt.Printf("%s%s\n", indent, n.Kind)
	}
	if n.Lhs != nil {
		dumpAST(n.Lhs, depth+1)
	}
	if n.Rhs != nil {
		dumpAST(n.Rhs, depth+1)
	}
	for _, c := range n.Children {
		dumpAST(c, depth+1)
	}
}

// emitDiagnostics renders a diagnostic result per --format and writes
// it to stderr, returning a non-nil error so the command exits
// non-zero whenever any diagnostic was recorded.
func emitDiagnostics(result *diag.Result, registry *source.Registry) error {
	switch outputFormat {
	case "json":
		out, err := result.FormatJSON(useColor)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, out)
	default:
		fmt.Fprint(os.Stderr, result.FormatAll(useColor, registry))
	}
	return fmt.Errorf("%d diagnostic(s)", len(result.Diagnostics()))
}
