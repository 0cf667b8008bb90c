// Package cli wires the quizquest commands: the HTTP service plus
// offline question-bank import and export.
package cli

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quizquest",
		Short:         "Educational quiz service with levels, badges, and a leaderboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file (environment overrides)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newExportCmd())
	return root
}
