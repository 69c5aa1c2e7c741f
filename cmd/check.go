package cmd

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fails if any setup step is out-of-date",
	Long: `Checks every step without running anything. Other tools call this to fail fast if
bootstrap was never run or one of the inputs changed since.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		ctx, b, err := setup(cmd, verbose)
		if err != nil {
			return err
		}

		return b.Check(ctx)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
