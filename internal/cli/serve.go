package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/schemadoc/internal/mcpsrv"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve annotation extraction over the Model Context Protocol on stdio",
		RunE: func(_ *cobra.Command, _ []string) error {
			return mcpsrv.NewServer().Serve()
		},
	}
}
