package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sonar-lang/sonar/internal/cli"
	"github.com/sonar-lang/sonar/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Read snippets line by line and print each parse tree. A snippet that ends
too early keeps reading on a continuation prompt. Type 'quit' or :help.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = cli.IsTerminal(f)
	}

	historyPath := expandHome(config.HistoryFile)
	var history []string
	if historyPath != "" {
		entries, err := repl.LoadHistory(historyPath)
		if err != nil {
			logger.Warn("%v", err)
		}
		history = entries
		logger.Debug("loaded %d history entries from %s", len(history), historyPath)
	}

	r := repl.New(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), repl.Options{
		Prompt:             config.Prompt,
		ContinuationPrompt: config.ContinuationPrompt,
		ShowPrompts:        interactive,
		History:            history,
		MaxHistory:         config.MaxHistory,
		Renderer:           renderer,
		Logger:             logger,
	})

	// A blocked read only returns once its input is closed.
	ctx := commandContext(cmd)
	stop := context.AfterFunc(ctx, func() {
		if closer, ok := in.(io.Closer); ok {
			closer.Close()
		}
	})
	defer stop()

	err := r.Run(ctx)
	if ctx.Err() != nil {
		err = nil
	}

	if historyPath != "" {
		if saveErr := repl.SaveHistory(historyPath, r.History()); saveErr != nil {
			logger.Warn("%v", saveErr)
		}
	}
	return err
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
