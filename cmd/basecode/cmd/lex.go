package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/doublelove22/basecode/internal/lexer"
	"github.com/doublelove22/basecode/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexExpr       string
	lexShowPos    bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a source file and print the resulting tokens",
	Long: `Tokenize a Language source file and print the resulting token stream.

If no file is given, reads from stdin. Use -e to tokenize an inline
expression instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize inline source instead of reading a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only illegal tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readSource(lexExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	errorCount := 0
	for {
		tok := l.Next()
		if lexOnlyErrors && tok.Kind != token.ILLEGAL {
			if tok.Kind == token.EOF {
				break
			}
			continue
		}
		printToken(tok)
		if tok.Kind == token.ILLEGAL {
			errorCount++
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-14s]", tok.Kind)
	if tok.Literal != "" {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}

// readSource resolves the command's input: an inline expression, a
// named file, or stdin when neither is given.
func readSource(expr string, args []string) (string, error) {
	if expr != "" {
		return expr, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
