// Package repl implements the interactive sonar loop. Each snippet is parsed
// and its canonical rendering printed. Lines keep accumulating into the same
// snippet while the parser reports that the input ended too early.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sonar-lang/sonar/internal/cli"
	"github.com/sonar-lang/sonar/internal/diagnostic"
	"github.com/sonar-lang/sonar/internal/format"
	"github.com/sonar-lang/sonar/internal/parser"
)

// Options configures a REPL.
type Options struct {
	Prompt             string
	ContinuationPrompt string

	// ShowPrompts controls prompts and the welcome banner. It is normally
	// set only when input comes from a terminal.
	ShowPrompts bool

	// History holds entries restored from a previous session. MaxHistory
	// caps the number kept; zero means no limit.
	History    []string
	MaxHistory int

	Renderer *diagnostic.Renderer
	Logger   *cli.Logger
}

// REPL reads snippets from in, writes renderings to out and diagnostics to
// errOut.
type REPL struct {
	opts    Options
	scanner *bufio.Scanner
	out     io.Writer
	errOut  io.Writer

	buffer  []string
	snippet int
	history []string
}

// New creates a REPL.
func New(in io.Reader, out, errOut io.Writer, opts Options) *REPL {
	if opts.Prompt == "" {
		opts.Prompt = "sonar> "
	}
	if opts.ContinuationPrompt == "" {
		opts.ContinuationPrompt = "... "
	}
	if opts.Renderer == nil {
		opts.Renderer = diagnostic.NewRenderer(false)
	}
	if opts.Logger == nil {
		opts.Logger = cli.NewLogger(io.Discard, false, false, false)
	}

	r := &REPL{
		opts:    opts,
		scanner: bufio.NewScanner(in),
		out:     out,
		errOut:  errOut,
		snippet: 1,
	}
	for _, entry := range opts.History {
		r.addToHistory(entry)
	}
	return r
}

// History returns the accepted snippets, oldest first.
func (r *REPL) History() []string {
	return append([]string(nil), r.history...)
}

// Run reads lines until end of input, a quit command, or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	if r.opts.ShowPrompts {
		fmt.Fprintf(r.out, "sonar v%s: enter an expression, or type 'quit' to exit.\n", cli.Version)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.opts.ShowPrompts {
			fmt.Fprint(r.out, r.prompt())
		}
		if !r.scanner.Scan() {
			if r.opts.ShowPrompts {
				fmt.Fprintln(r.out)
			}
			return r.scanner.Err()
		}

		if quit := r.Feed(r.scanner.Text()); quit {
			return nil
		}
	}
}

// Feed processes one input line and reports whether the session should end.
func (r *REPL) Feed(line string) bool {
	if len(r.buffer) == 0 {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return false
		}
		if trimmed == "quit" || trimmed == "exit" {
			return true
		}
		if strings.HasPrefix(trimmed, ":") {
			return r.handleCommand(trimmed)
		}
	}

	r.buffer = append(r.buffer, line)
	source := strings.Join(r.buffer, "\n")
	name := r.SourceName()

	expr, err := parser.ParseSource(source, name)
	if err != nil {
		if diagnostic.IsIncomplete(err) {
			r.opts.Logger.Debug("%s: incomplete after %d line(s)", name, len(r.buffer))
			return false
		}
		r.opts.Renderer.Render(r.errOut, err, source)
		r.reset()
		return false
	}

	fmt.Fprintln(r.out, format.Expression(expr))
	r.addToHistory(source)
	r.reset()
	return false
}

// SourceName is the label for the snippet currently being read.
func (r *REPL) SourceName() string {
	return fmt.Sprintf("<repl #%d>", r.snippet)
}

// Pending reports whether an incomplete snippet is waiting for more lines.
func (r *REPL) Pending() bool {
	return len(r.buffer) > 0
}

func (r *REPL) prompt() string {
	if r.Pending() {
		return r.opts.ContinuationPrompt
	}
	return r.opts.Prompt
}

func (r *REPL) reset() {
	r.buffer = r.buffer[:0]
	r.snippet++
}

func (r *REPL) addToHistory(entry string) {
	r.history = append(r.history, entry)
	if r.opts.MaxHistory > 0 && len(r.history) > r.opts.MaxHistory {
		r.history = r.history[len(r.history)-r.opts.MaxHistory:]
	}
}

// handleCommand runs a ':' command and reports whether to quit.
func (r *REPL) handleCommand(line string) bool {
	parts := strings.Fields(line)

	switch parts[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		r.printHelp()
	case ":history":
		if len(r.history) == 0 {
			fmt.Fprintln(r.out, "No history")
			break
		}
		for i, entry := range r.history {
			fmt.Fprintf(r.out, "%3d: %s\n", i+1, strings.ReplaceAll(entry, "\n", "\n     "))
		}
	default:
		fmt.Fprintf(r.errOut, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.errOut, "Type :help for available commands")
	}
	return false
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "REPL Commands:")
	fmt.Fprintln(r.out, "  :help, :h          Show this help")
	fmt.Fprintln(r.out, "  :quit, :q, :exit   Exit REPL (also 'quit' or 'exit')")
	fmt.Fprintln(r.out, "  :history           Show accepted snippets")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Enter sonar source to see its parse tree. Unfinished input continues on the next line.")
}
