package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Prune the generation cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cmd.Context(), all)
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Remove the whole cache instead of pruning stale entries")

	return cmd
}
