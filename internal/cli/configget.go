package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigGetCommand creates the config-get command.
func NewConfigGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config-get VAR [PATH-TO-REPO]",
		Short: "Print every value of a repository configuration variable",
		Long: `Print each value recorded for a configuration variable, one per line.
Multi-valued variables print every occurrence in file order. An unset
variable prints nothing. Honours GIT_DIR if no path is given.

Example:
  reltrack config-get release-branch.master.track`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(args, 1)
			if err != nil {
				return err
			}
			values, err := repo.ConfigValues(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read configuration", err)
			}
			out := cmd.OutOrStdout()
			for _, v := range values {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}
