package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sonar-lang/sonar/internal/cli"
	"github.com/sonar-lang/sonar/internal/diagnostic"
)

// errReported is returned once a diagnostic has already been written to
// stderr, so main only sets the exit status.
var errReported = errors.New("errors reported")

var (
	configPath string
	verbose    bool
	debug      bool
	noColor    bool
)

// Shared state prepared by setup before any command runs.
var (
	config   = cli.DefaultConfig()
	logger   = cli.NewLogger(io.Discard, false, false, false)
	renderer = diagnostic.NewRenderer(false)
)

var rootCmd = &cobra.Command{
	Use:   "sonar [file...]",
	Short: "Sonar - parser for the sonar expression language",
	Long: `Sonar tokenizes and parses sonar source and prints the canonical parse tree.

With file arguments it behaves like "sonar parse". Without arguments it starts
an interactive session.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .sonar.yaml, .sonar.yml or .sonar.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || verbose
	cfg.Debug = cfg.Debug || debug
	if noColor {
		cfg.Color = cli.ColorNever
	}

	colored := colorEnabled(cfg.Color, cmd.ErrOrStderr())
	config = cfg
	logger = cli.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.Debug, colored)
	renderer = diagnostic.NewRenderer(colored)

	if cfg.ConfigFile != "" {
		logger.Debug("loaded config from %s", cfg.ConfigFile)
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runREPL(cmd, args)
	}
	return parseFiles(cmd, args)
}

// =============================================================================
// HELPERS
// =============================================================================

// colorEnabled resolves the color mode for w. Writers that are not files
// only get color when it is forced.
func colorEnabled(mode string, w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return cli.ColorEnabled(mode, f)
	}
	return mode == cli.ColorAlways
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
