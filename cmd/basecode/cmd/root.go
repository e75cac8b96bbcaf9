package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	outputFormat string // --format text|json
	useColor     bool   // --color
	searchPaths  []string
)

var rootCmd = &cobra.Command{
	Use:   "basecode",
	Short: "Lexer, parser and semantic elaborator for the Language",
	Long: `basecode drives the Language's front-end pipeline: a hand-written
lexer, a Pratt parser that builds an AST, and an AST Evaluator that
lowers the AST into a program-element graph (scopes, identifier
tables, type tables, cross-module resolution).

It does not assemble bytecode or run a VM; it stops at the element
graph and its diagnostics.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "diagnostics output format: text|json")
	rootCmd.PersistentFlags().BoolVar(&useColor, "color", false, "colorize text-format diagnostics")
	rootCmd.PersistentFlags().StringArrayVar(&searchPaths, "search-path", nil, "module search path (repeatable)")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
