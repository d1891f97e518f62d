package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewContainsCommand creates the contains command.
func NewContainsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contains COMMIT [PATH-TO-REPO]",
		Short: "List the branches whose history contains a commit",
		Long: `Walk every local branch's history and print the names of those that
contain the given commit, one per line. COMMIT may be any revision
expression. Honours GIT_DIR if no path is given.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(args, 1)
			if err != nil {
				return err
			}
			hash, err := repo.ResolveCommit(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to resolve commit", err)
			}
			branches, err := repo.Contains(hash)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to walk branches", err)
			}
			out := cmd.OutOrStdout()
			for _, name := range branches {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
