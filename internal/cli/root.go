// Package cli implements the guardctl command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "guardctl",
	Short: "Evaluate declarative route guards from the command line",
	Long:  "Loads a route-table file, simulates the external predicates from flags, and answers: may this path be entered, or where does navigation go instead?",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
