package release

import (
	"context"
	"log/slog"
	"time"

	"github.com/reltrack/reltrack/internal/gitrepo"
)

// Candidate is a discovered release: a version on a branch, pinned to a
// commit. Candidates are transient; they only ever exist on their way
// into the ledger's reconciliation step.
type Candidate struct {
	Version string
	Branch  string
	Commit  string // 40-hex content hash
	When    time.Time
}

// Repository is the view of the repository gateway the engine needs.
// *gitrepo.Repo implements it.
type Repository interface {
	ConfigSource
	Branches() ([]gitrepo.Branch, error)
	Tags() ([]gitrepo.Tag, error)
	CommitTime(hash string) (time.Time, error)
	Walk(from string, fn func(hash string) error) error
}

// Ledger receives discovered candidates. Reconciliation must be
// idempotent: re-proposing a candidate the ledger already holds is a
// no-op.
type Ledger interface {
	Reconcile(ctx context.Context, c Candidate) error
}

// Engine walks every eligible branch of a repository and reconciles the
// releases it finds into the ledger. Branches are processed one at a
// time; a branch that fails validation or policy lookup is skipped, not
// fatal. Ledger errors are fatal.
type Engine struct {
	repo   Repository
	ledger Ledger
}

// NewEngine creates a discovery engine over the given repository and
// ledger.
func NewEngine(repo Repository, ledger Ledger) *Engine {
	return &Engine{repo: repo, ledger: ledger}
}

// Run discovers releases on every branch with a supported tracking mode.
func (e *Engine) Run(ctx context.Context) error {
	branches, err := e.repo.Branches()
	if err != nil {
		return err
	}
	for _, branch := range branches {
		if !ValidBranchName(branch.Name) {
			slog.Warn("ignoring branch: name is not valid for release-tracking",
				"branch", branch.Name)
			continue
		}
		mode, raw, err := ResolveMode(e.repo, branch.Name)
		if err != nil {
			return err
		}
		switch mode {
		case ModeNone:
			slog.Debug("branch has no tracking configuration", "branch", branch.Name)
		case ModeTip:
			if err := e.discoverTip(ctx, branch); err != nil {
				return err
			}
		case ModeTag:
			if err := e.discoverTags(ctx, branch); err != nil {
				return err
			}
		default:
			slog.Warn("tracking mode is not supported",
				"branch", branch.Name, "track", raw)
		}
	}
	return nil
}

// discoverTip proposes the branch tip as a release. The synthesized
// version is a pure function of the tip commit, so an unchanged tip
// reconciles to a no-op.
func (e *Engine) discoverTip(ctx context.Context, branch gitrepo.Branch) error {
	when, err := e.repo.CommitTime(branch.Tip)
	if err != nil {
		slog.Warn("failed to locate commit at branch tip",
			"branch", branch.Name, "commit", branch.Tip, "error", err)
		return nil
	}
	return e.ledger.Reconcile(ctx, Candidate{
		Version: TipVersion(branch.Tip, when),
		Branch:  branch.Name,
		Commit:  branch.Tip,
		When:    when,
	})
}

// discoverTags walks the branch history and proposes a release for every
// commit carrying a qualifying tag. The commit-to-versions index is
// built once per walk and preserves the repository's tag enumeration
// order; a commit with several qualifying tags contributes only the
// first, so each commit yields at most one release per branch.
func (e *Engine) discoverTags(ctx context.Context, branch gitrepo.Branch) error {
	index, err := e.tagIndex()
	if err != nil {
		return err
	}
	return e.repo.Walk(branch.Tip, func(hash string) error {
		versions := index[hash]
		if len(versions) == 0 {
			return nil
		}
		when, err := e.repo.CommitTime(hash)
		if err != nil {
			slog.Warn("failed to locate tagged commit",
				"branch", branch.Name, "commit", hash, "error", err)
			return nil
		}
		return e.ledger.Reconcile(ctx, Candidate{
			Version: versions[0],
			Branch:  branch.Name,
			Commit:  hash,
			When:    when,
		})
	})
}

// tagIndex maps each commit hash to the versions of the qualifying tags
// that point at it, in tag enumeration order.
func (e *Engine) tagIndex() (map[string][]string, error) {
	tags, err := e.repo.Tags()
	if err != nil {
		return nil, err
	}
	index := make(map[string][]string, len(tags))
	for _, tag := range tags {
		if version, ok := ParseTag(tag.Name); ok {
			index[tag.Commit] = append(index[tag.Commit], version)
		}
	}
	return index, nil
}
