package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reltrack/reltrack/internal/gitrepo"
	"github.com/reltrack/reltrack/internal/ledger"
	"github.com/reltrack/reltrack/internal/release"
)

// ChangelogOptions holds flags for the changelog command.
type ChangelogOptions struct {
	*RootOptions
	StartCommit string
}

// NewChangelogCommand creates the changelog command.
func NewChangelogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChangelogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "changelog BRANCH [PATH-TO-REPO]",
		Short: "Write a Debian-format changelog for a branch",
		Long: `Walk a branch's history and write a changelog in Debian format:
commits are grouped under the release they belong to, each message
line becoming a bullet entry. Versions come from the release ledger
when one exists beside the repository, otherwise from release tags.

Commits older than the branch's first release are omitted. Honours
GIT_DIR if no path is given.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelog(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.StartCommit, "commit", "c", "",
		"begin the log at this commit; it must be a release on the branch")

	return cmd
}

func runChangelog(cmd *cobra.Command, opts *ChangelogOptions, args []string) error {
	ctx := cmd.Context()
	branch := args[0]

	repo, err := openRepo(args, 1)
	if err != nil {
		return err
	}
	tip, err := repo.BranchTip(branch)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to look up branch", err)
	}

	start := ""
	if opts.StartCommit != "" {
		start, err = repo.ResolveCommit(opts.StartCommit)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to resolve starting commit", err)
		}
	}

	lookup, closeLookup, err := versionLookup(ctx, repo, branch)
	if err != nil {
		return err
	}
	defer closeLookup()

	cw := newChangelogWriter(cmd.OutOrStdout(), repo.Name(), branch)
	started := start == ""
	found := started
	err = repo.WalkCommits(tip, func(c gitrepo.Commit) error {
		if !started && c.Hash != start {
			return nil
		}
		version, err := lookup(c.Hash)
		if err != nil {
			return err
		}
		logged := cw.Commit(c, version)
		if !logged && !started {
			// The requested starting commit appears on the branch but
			// is not a release, which we consider an error.
			return fmt.Errorf("commit '%s' is not a release on '%s'", start, branch)
		}
		started, found = true, true
		return nil
	})
	if err != nil {
		return WrapExitError(ExitFailure, "changelog failed", err)
	}
	if !found {
		return NewExitError(ExitFailure,
			fmt.Sprintf("commit '%s' does not appear on branch '%s'", start, branch))
	}
	cw.Close()
	return nil
}

// versionLookup resolves a commit to its release version on the branch.
// When a ledger database exists beside the repository it is
// authoritative; otherwise release tags are consulted directly.
func versionLookup(ctx context.Context, repo *gitrepo.Repo, branch string) (func(commit string) (string, error), func(), error) {
	if _, err := os.Stat(repo.LedgerPath()); err == nil {
		led, err := ledger.Open(repo.LedgerPath())
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		lookup := func(commit string) (string, error) {
			version, _, err := led.ReleaseForCommit(ctx, branch, commit)
			return version, err
		}
		return lookup, func() { led.Close() }, nil
	}

	tags, err := repo.Tags()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to list tags", err)
	}
	index := make(map[string]string, len(tags))
	for _, tag := range tags {
		if version, ok := release.ParseTag(tag.Name); ok {
			if _, seen := index[tag.Commit]; !seen {
				index[tag.Commit] = version
			}
		}
	}
	lookup := func(commit string) (string, error) {
		return index[commit], nil
	}
	return lookup, func() {}, nil
}

// changelogWriter accumulates commits into Debian changelog sections.
// A release commit opens a section; subsequent commits append entries
// to it; the next release (or the end of the walk) closes it with the
// maintainer trailer of the commit that opened it.
type changelogWriter struct {
	w      io.Writer
	pkg    string
	branch string

	open   bool
	relsig gitrepo.Signature
}

func newChangelogWriter(w io.Writer, pkg, branch string) *changelogWriter {
	return &changelogWriter{w: w, pkg: pkg, branch: branch}
}

// Commit feeds one commit, with its release version or "" if it is not
// a release. Reports whether the commit was logged; commits older than
// the first release are not.
func (cw *changelogWriter) Commit(c gitrepo.Commit, version string) bool {
	if version != "" {
		cw.trailer(true)
	}
	if !cw.open && version == "" {
		// We haven't yet reached a release.
		return false
	}
	if !cw.open {
		cw.open = true
		cw.relsig = c.Committer
		fmt.Fprintf(cw.w, "%s (%s) %s; urgency=low\n\n", cw.pkg, version, cw.branch)
	}
	cw.message(c.Message)
	return true
}

// Close flushes the trailer of the final open section.
func (cw *changelogWriter) Close() {
	cw.trailer(false)
}

func (cw *changelogWriter) trailer(more bool) {
	if !cw.open {
		return
	}
	date := cw.relsig.When.Format("Mon, _2 Jan 2006 15:04:05 -0700")
	fmt.Fprintf(cw.w, "\n -- %s <%s>  %s\n", cw.relsig.Name, cw.relsig.Email, date)
	if more {
		fmt.Fprintln(cw.w)
	}
	cw.open = false
}

// message writes each non-empty message line as a bullet entry, leading
// whitespace stripped.
func (cw *changelogWriter) message(message string) {
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			continue
		}
		fmt.Fprintf(cw.w, "  * %s\n", line)
	}
}
