package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBranchesCommand creates the branches command.
func NewBranchesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branches [PATH-TO-REPO]",
		Short: "List the repository's branches",
		Long: `List local and remote-tracking branches, one per line.
Honours GIT_DIR if no path is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(args, 0)
			if err != nil {
				return err
			}
			local, err := repo.Branches()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list branches", err)
			}
			remote, err := repo.RemoteBranches()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list remote branches", err)
			}
			out := cmd.OutOrStdout()
			for _, b := range local {
				fmt.Fprintf(out, "%s (local)\n", b.Name)
			}
			for _, b := range remote {
				fmt.Fprintf(out, "%s (remote)\n", b.Name)
			}
			return nil
		},
	}
}
