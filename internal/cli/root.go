// Package cli provides the command-line interface for schemadoc.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates and runs the root command.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "schemadoc",
		Short: "Schema annotation extraction tools",
	}

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd.Execute()
}
