package main

import (
	"github.com/spf13/cobra"

	"github.com/sonar-lang/sonar/internal/cli"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	return cli.PrintVersion(cmd.OutOrStdout(), "sonar", versionJSON)
}
