package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Signature identifies the author or committer of a commit. When carries
// the commit's original UTC offset as its Location, matching what the
// committer's clock read.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is the gateway's view of a commit object.
type Commit struct {
	Hash      string
	Message   string
	Committer Signature
}

// Branch is a branch reference resolved to its tip.
type Branch struct {
	Name string // short name, e.g. "master"
	Tip  string // 40-hex hash of the commit at the tip
}

// Tag is a tag reference resolved to the commit it ultimately points at.
// Annotated tags are peeled; Name keeps the full "refs/tags/..." form.
type Tag struct {
	Name   string
	Commit string
}

// Repo wraps an opened git repository together with the paths derived
// from it (git directory, ledger database, release hook).
type Repo struct {
	repo   *gitlib.Repository
	path   string // path the repository was opened from
	gitDir string // resolved git directory (repo root when bare)
}

// Open opens the repository at path. An empty path falls back to $GIT_DIR,
// and failing that to upward discovery from the current working directory.
func Open(path string) (*Repo, error) {
	if path == "" {
		path = os.Getenv("GIT_DIR")
	}
	var (
		repo *gitlib.Repository
		err  error
	)
	if path != "" {
		repo, err = gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{})
	} else {
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		repo, err = gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{DetectDotGit: true})
	}
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	gitDir := path
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = st.Filesystem().Root()
	}
	return &Repo{repo: repo, path: path, gitDir: gitDir}, nil
}

// Path returns the path the repository was opened from.
func (r *Repo) Path() string { return r.path }

// GitDir returns the resolved git directory.
func (r *Repo) GitDir() string { return r.gitDir }

// LedgerPath returns the location of the release ledger database.
func (r *Repo) LedgerPath() string {
	return filepath.Join(r.gitDir, "releases.sqlite3")
}

// HookPath returns the location of the optional release build hook.
func (r *Repo) HookPath() string {
	return filepath.Join(r.gitDir, "hooks", "release")
}

// Name returns the repository's package name: the package.name config
// value when set, otherwise the last path component with any ".git"
// suffix trimmed.
func (r *Repo) Name() string {
	if name, err := r.ConfigValue("package.name"); err == nil && name != "" {
		return name
	}
	p := filepath.Clean(r.path)
	if filepath.Base(p) == ".git" {
		p = filepath.Dir(p)
	}
	return strings.TrimSuffix(filepath.Base(p), ".git")
}

// ResolveCommit resolves a revision expression (hash, ref name, etc.) to
// a full commit hash.
func (r *Repo) ResolveCommit(rev string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rev, err)
	}
	if _, err := r.repo.CommitObject(*hash); err != nil {
		return "", fmt.Errorf("%q does not name a commit: %w", rev, err)
	}
	return hash.String(), nil
}

// BranchTip resolves a local branch name to its tip commit.
func (r *Repo) BranchTip(name string) (string, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err != nil {
		return "", fmt.Errorf("look up branch %q: %w", name, err)
	}
	return ref.Hash().String(), nil
}

// CommitTime returns the committer timestamp of the given commit. The
// returned time keeps the commit's original UTC offset as its Location.
func (r *Repo) CommitTime(hash string) (time.Time, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return time.Time{}, fmt.Errorf("look up commit %s: %w", hash, err)
	}
	return c.Committer.When, nil
}

// HookExecutable reports whether the release hook exists and is
// executable. A missing hook is not an error.
func (r *Repo) HookExecutable() bool {
	info, err := os.Stat(r.HookPath())
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
