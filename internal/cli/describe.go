package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quanturnic/internal/rpc"
)

func newDescribeCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the bot interface description as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := rpc.Describe().YAML()
			if err != nil {
				return fmt.Errorf("render description: %w", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
