package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Sync(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !report.Changed {
				_, _ = fmt.Fprintf(out, "up to date (%s)\n", report.Fingerprint)
				return nil
			}
			_, _ = fmt.Fprintf(out, "synced %d files (%s)\n", report.FilesWritten, report.Fingerprint)
			return nil
		},
	}
}
