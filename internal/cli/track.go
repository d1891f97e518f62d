package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reltrack/reltrack/internal/dispatch"
	"github.com/reltrack/reltrack/internal/ledger"
	"github.com/reltrack/reltrack/internal/release"
)

// NewTrackCommand creates the track command: discovery, ledger
// reconciliation, and build dispatch in one sequential pass.
func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track [PATH-TO-REPO]",
		Short: "Discover releases and reconcile them into the ledger",
		Long: `Discover releases on every configured branch and reconcile them into
the ledger at <gitdir>/releases.sqlite3, creating it if necessary.

Afterwards, if an executable <gitdir>/hooks/release exists, it is
invoked once per pending release as:

  hooks/release <commit> <branch> <release>

A zero exit status records SUCCESS; anything else records the exit
code. Honours GIT_DIR if no path is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, args)
		},
	}
	return cmd
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, err := openRepo(args, 0)
	if err != nil {
		return err
	}

	slog.Debug("opening ledger", "path", repo.LedgerPath())
	led, err := ledger.Open(repo.LedgerPath())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer func() {
		if closeErr := led.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	engine := release.NewEngine(repo, led)
	if err := engine.Run(ctx); err != nil {
		return WrapExitError(ExitCommandError, "release discovery failed", err)
	}

	if !repo.HookExecutable() {
		slog.Debug("release hook not present; skipping build dispatch",
			"path", repo.HookPath())
		return nil
	}
	dispatcher := dispatch.New(led, dispatch.ExecRunner{}, repo.HookPath())
	if err := dispatcher.Run(ctx); err != nil {
		return WrapExitError(ExitCommandError, "build dispatch failed", err)
	}
	return nil
}
