package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonar-lang/sonar/internal/diagnostic"
	"github.com/sonar-lang/sonar/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a file",
	Long:  `Print one token per line as: TYPE LEXEME @START..END LINE:COLUMN. Use "-" for standard input.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	path := args[0]

	var (
		data []byte
		err  error
	)
	if path == "-" {
		path = "<stdin>"
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	source := string(data)

	result, err := lexer.Tokenize(source)
	if err != nil {
		if diag, ok := diagnostic.As(err); ok {
			err = diag.WithSourceName(path)
		}
		renderer.Render(cmd.ErrOrStderr(), err, source)
		return errReported
	}

	out := cmd.OutOrStdout()
	for _, tok := range result.Tokens {
		fmt.Fprintf(out, "%-10s %-16q @%s %s\n", tok.Type, tok.Lexeme, tok.Span, result.LineOffsets.Locate(tok.Span.Start))
	}
	logger.Info("%s: %d tokens, %d lines", path, len(result.Tokens), len(result.LineOffsets))
	return nil
}
