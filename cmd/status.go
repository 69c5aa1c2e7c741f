package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Lists all setup steps and whether they're up-to-date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		ctx, b, err := setup(cmd, verbose)
		if err != nil {
			return err
		}

		statusList, err := b.Status(ctx)
		if err != nil {
			return err
		}

		maxNameLen := 0
		for _, status := range statusList {
			if len(status.Action.Name) > maxNameLen {
				maxNameLen = len(status.Action.Name)
			}
		}

		out := cmd.OutOrStdout()
		lineFmt := fmt.Sprintf(" * %%-%ds %%-12s %%s\n", maxNameLen+3)
		for _, status := range statusList {
			state := "up-to-date"
			if status.Stale {
				state = "out-of-date"
			}

			stamp, err := filepath.Rel(b.Root(), status.StampPath)
			if err != nil {
				stamp = status.StampPath
			}
			if status.StampTime.IsZero() {
				stamp += " (missing)"
			} else {
				stamp += " (" + status.StampTime.Format(time.RFC3339) + ")"
			}

			fmt.Fprintf(out, lineFmt, status.Action.Name+":", state, stamp)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
