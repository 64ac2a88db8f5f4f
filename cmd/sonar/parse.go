package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sonar-lang/sonar/internal/diagnostic"
	"github.com/sonar-lang/sonar/internal/format"
	"github.com/sonar-lang/sonar/internal/lexer"
	"github.com/sonar-lang/sonar/internal/parser"
	"github.com/sonar-lang/sonar/internal/watch"
)

// watchSettle is how long a file must stay quiet before it is re-parsed.
const watchSettle = 100 * time.Millisecond

var (
	watchMode bool
	evalExpr  string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Parse files and print their parse trees",
	Long: `Parse each file and print its canonical parse tree, one line per file.
Use "-" to read from standard input. Files are parsed concurrently but
reported in argument order.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-parse the file every time it is written")
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "Parse the given source instead of files")
}

func runParse(cmd *cobra.Command, args []string) error {
	switch {
	case evalExpr != "":
		if len(args) > 0 {
			return fmt.Errorf("--eval cannot be combined with file arguments")
		}
		return report(cmd, parseResult{path: "<eval>", source: evalExpr, tree: parseSource(evalExpr, "<eval>")})
	case watchMode:
		if len(args) != 1 || args[0] == "-" {
			return fmt.Errorf("--watch needs exactly one file path")
		}
		return watchFile(cmd, args[0])
	case len(args) == 0:
		return fmt.Errorf("no input files (use - for standard input)")
	}
	return parseFiles(cmd, args)
}

type parseResult struct {
	path   string
	source string
	tree   parseOutcome
}

type parseOutcome struct {
	rendering string
	err       error
}

func parseSource(source, name string) parseOutcome {
	expr, err := parser.ParseSource(source, name)
	if err != nil {
		return parseOutcome{err: err}
	}
	return parseOutcome{rendering: format.Expression(expr)}
}

// parseFiles parses paths concurrently and prints the results in order. Any
// failure is rendered to stderr and turns into errReported.
func parseFiles(cmd *cobra.Command, paths []string) error {
	var stdin []byte
	for _, path := range paths {
		if path == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read standard input: %w", err)
			}
			stdin = data
			break
		}
	}

	results := make([]parseResult, len(paths))
	g, ctx := errgroup.WithContext(commandContext(cmd))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = parseFile(path, stdin)
			logger.Debug("parsed %s", results[i].path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := false
	for _, res := range results {
		if err := report(cmd, res); err != nil {
			failed = true
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func parseFile(path string, stdin []byte) parseResult {
	name := path
	data := stdin
	if path == "-" {
		name = "<stdin>"
	} else {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return parseResult{path: name, tree: parseOutcome{err: fmt.Errorf("failed to read %s: %w", path, err)}}
		}
	}
	source := string(data)
	return parseResult{path: name, source: source, tree: parseSource(source, name)}
}

// report prints one result: the rendering to stdout, or the diagnostic to
// stderr followed by errReported.
func report(cmd *cobra.Command, res parseResult) error {
	if res.tree.err != nil {
		renderer.Render(cmd.ErrOrStderr(), res.tree.err, res.source)
		return errReported
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.tree.rendering)
	return nil
}

// watchFile parses path once and again after every write until the command
// context is cancelled. Writes that leave the content unchanged are skipped.
func watchFile(cmd *cobra.Command, path string) error {
	cache := lexer.NewCache()
	reparse := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			renderer.Render(cmd.ErrOrStderr(), fmt.Errorf("failed to read %s: %w", path, err), "")
			return
		}
		source := string(data)

		result, hit, err := cache.Tokenize(path, source)
		if hit {
			logger.Debug("%s: content unchanged", path)
			return
		}
		if err != nil {
			if diag, ok := diagnostic.As(err); ok {
				err = diag.WithSourceName(path)
			}
			report(cmd, parseResult{path: path, source: source, tree: parseOutcome{err: err}})
			return
		}

		var outcome parseOutcome
		if expr, err := parser.Parse(result.Tokens, result.LineOffsets, path); err != nil {
			outcome.err = err
		} else {
			outcome.rendering = format.Expression(expr)
		}
		report(cmd, parseResult{path: path, source: source, tree: outcome})
	}

	ctx := commandContext(cmd)
	reparse()
	logger.Info("watching %s for changes", path)
	err := watch.File(ctx, path, watchSettle, func(ev watch.Event) {
		logger.Debug("%s changed", ev.Path)
		reparse()
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
