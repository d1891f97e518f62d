package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewTagsCommand creates the tags command.
func NewTagsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tags [PATH-TO-REPO]",
		Short: "List the repository's tags",
		Long: `List tags, one short name per line, in enumeration order.
Honours GIT_DIR if no path is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(args, 0)
			if err != nil {
				return err
			}
			tags, err := repo.Tags()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list tags", err)
			}
			out := cmd.OutOrStdout()
			for _, t := range tags {
				fmt.Fprintln(out, strings.TrimPrefix(t.Name, "refs/tags/"))
			}
			return nil
		},
	}
}
