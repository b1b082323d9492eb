// Package cli holds the quanturnic command tree.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running the root without a
// subcommand serves the bot.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quanturnic",
		Short:        "Simulated trading bot server and client",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		newServeCmd(),
		newDescribeCmd(),
		newJournalCmd(),
		newBotCmd(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
