// Package cli wires the reltrack commands together. The track command
// is the reason the tool exists; the rest are thin enumeration
// utilities sharing the same repository gateway.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the reltrack CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reltrack",
		Short: "Track releases of a git repository in a build ledger",
		Long: `reltrack inspects a git repository, decides which commits constitute
releases under a per-branch policy, and maintains an idempotent SQLite
ledger of them so that a downstream build process can act on newly
discovered releases exactly once.

Per-branch policy lives in the repository configuration:

  [release-branch "master"]
  track = tip

  [release-branch "stable"]
  track = tag

Intended to be invoked from a post-receive hook; re-running over an
unchanged history is always a no-op.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.Verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewTrackCommand(opts))
	cmd.AddCommand(NewBranchesCommand(opts))
	cmd.AddCommand(NewTagsCommand(opts))
	cmd.AddCommand(NewConfigGetCommand(opts))
	cmd.AddCommand(NewContainsCommand(opts))
	cmd.AddCommand(NewChangelogCommand(opts))

	return cmd
}

// configureLogging routes diagnostics to stderr, at debug level when
// verbose is set.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
