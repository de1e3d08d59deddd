package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/prompt-generator/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		// version needs neither config nor a logger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prompt-generator %s (commit %s, branch %s)\n",
				build.Version, build.Commit, build.Branch)
		},
	}
}
