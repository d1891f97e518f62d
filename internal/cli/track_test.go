package cli

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepo builds a real repository: two commits on master, a release
// tag on each, and branch tracking configuration.
type testRepo struct {
	dir     string
	commit1 plumbing.Hash
	commit2 plumbing.Hash
}

func newTestRepo(t *testing.T, track string) *testRepo {
	t.Helper()
	dir := t.TempDir()

	raw, err := gitlib.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)

	sig := func(when time.Time) *object.Signature {
		return &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	}
	t1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	h1, err := wt.Commit("Release 1.0\n", &gitlib.CommitOptions{
		Author: sig(t1), Committer: sig(t1), AllowEmptyCommits: true,
	})
	require.NoError(t, err)
	h2, err := wt.Commit("Release 1.1\n", &gitlib.CommitOptions{
		Author: sig(t2), Committer: sig(t2), AllowEmptyCommits: true,
	})
	require.NoError(t, err)

	_, err = raw.CreateTag("v1.0", h1, nil)
	require.NoError(t, err)
	_, err = raw.CreateTag("v1.1", h2, nil)
	require.NoError(t, err)

	cfg, err := raw.Config()
	require.NoError(t, err)
	cfg.Raw.Section("release-branch").Subsection("master").SetOption("track", track)
	require.NoError(t, raw.SetConfig(cfg))

	return &testRepo{dir: dir, commit1: h1, commit2: h2}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func queryRows(t *testing.T, dir string) []map[string]string {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(dir, ".git", "releases.sqlite3"))
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT "release", "branch", "commit", "state" FROM "releases" ORDER BY "release"`)
	require.NoError(t, err)
	defer rows.Close()

	var result []map[string]string
	for rows.Next() {
		var release, branch, commit, state string
		require.NoError(t, rows.Scan(&release, &branch, &commit, &state))
		result = append(result, map[string]string{
			"release": release, "branch": branch, "commit": commit, "state": state,
		})
	}
	require.NoError(t, rows.Err())
	return result
}

func TestTrack_TagMode(t *testing.T) {
	repo := newTestRepo(t, "tag")

	_, err := execute(t, "track", repo.dir)
	require.NoError(t, err)

	rows := queryRows(t, repo.dir)
	require.Len(t, rows, 2)
	assert.Equal(t, "1.0", rows[0]["release"])
	assert.Equal(t, repo.commit1.String(), rows[0]["commit"])
	assert.Equal(t, "1.1", rows[1]["release"])
	assert.Equal(t, repo.commit2.String(), rows[1]["commit"])
	for _, row := range rows {
		assert.Equal(t, "master", row["branch"])
		assert.Equal(t, "NEW", row["state"])
	}
}

func TestTrack_TipMode(t *testing.T) {
	repo := newTestRepo(t, "tip")

	_, err := execute(t, "track", repo.dir)
	require.NoError(t, err)

	rows := queryRows(t, repo.dir)
	require.Len(t, rows, 1)
	assert.Equal(t, "2402.0112.0000-git"+repo.commit2.String()[:8], rows[0]["release"])
	assert.Equal(t, repo.commit2.String(), rows[0]["commit"])
}

func TestTrack_Idempotent(t *testing.T) {
	repo := newTestRepo(t, "tag")

	_, err := execute(t, "track", repo.dir)
	require.NoError(t, err)
	first := queryRows(t, repo.dir)

	_, err = execute(t, "track", repo.dir)
	require.NoError(t, err)
	second := queryRows(t, repo.dir)

	assert.Equal(t, first, second, "a second run over unchanged history must be a no-op")
}

func TestTrack_DispatchesHook(t *testing.T) {
	repo := newTestRepo(t, "tag")

	hookDir := filepath.Join(repo.dir, ".git", "hooks")
	require.NoError(t, os.MkdirAll(hookDir, 0o755))
	marker := filepath.Join(t.TempDir(), "calls")
	script := "#!/bin/sh\necho \"$1 $2 $3\" >> " + marker + "\nexit 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(hookDir, "release"), []byte(script), 0o755))

	_, err := execute(t, "track", repo.dir)
	require.NoError(t, err)

	for _, row := range queryRows(t, repo.dir) {
		assert.Equal(t, "SUCCESS", row["state"])
	}
	calls, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Contains(t, string(calls), repo.commit1.String()+" master 1.0")
	assert.Contains(t, string(calls), repo.commit2.String()+" master 1.1")
}

func TestTrack_NonExecutableHookSkipsDispatch(t *testing.T) {
	repo := newTestRepo(t, "tag")

	hookDir := filepath.Join(repo.dir, ".git", "hooks")
	require.NoError(t, os.MkdirAll(hookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hookDir, "release"),
		[]byte("#!/bin/sh\nexit 0\n"), 0o644))

	_, err := execute(t, "track", repo.dir)
	require.NoError(t, err)

	for _, row := range queryRows(t, repo.dir) {
		assert.Equal(t, "NEW", row["state"], "rows must stay pending without an executable hook")
	}
}

func TestTrack_BadRepositoryPath(t *testing.T) {
	_, err := execute(t, "track", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestChangelogCommand(t *testing.T) {
	repo := newTestRepo(t, "tag")

	// Populate the ledger first so the changelog resolves versions
	// from it.
	_, err := execute(t, "track", repo.dir)
	require.NoError(t, err)

	out, err := execute(t, "changelog", "master", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "(1.1) master; urgency=low")
	assert.Contains(t, out, "(1.0) master; urgency=low")
	assert.Contains(t, out, "  * Release 1.0")
	assert.Contains(t, out, " -- Test <test@example.com>")
}

func TestChangelogCommand_StartCommitNotARelease(t *testing.T) {
	repo := newTestRepo(t, "tag")

	// Without a ledger, versions come from the tags directly; an
	// untagged start commit is an error.
	raw, err := gitlib.PlainOpen(repo.dir)
	require.NoError(t, err)
	wt, err := raw.Worktree()
	require.NoError(t, err)
	sig := &object.Signature{
		Name: "Test", Email: "test@example.com",
		When: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	h3, err := wt.Commit("untagged\n", &gitlib.CommitOptions{
		Author: sig, Committer: sig, AllowEmptyCommits: true,
	})
	require.NoError(t, err)

	_, err = execute(t, "changelog", "master", repo.dir, "--commit", h3.String())
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestBranchesCommand(t *testing.T) {
	repo := newTestRepo(t, "tag")

	out, err := execute(t, "branches", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "master (local)")
}

func TestTagsCommand(t *testing.T) {
	repo := newTestRepo(t, "tag")

	out, err := execute(t, "tags", repo.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "v1.0\n")
	assert.Contains(t, out, "v1.1\n")
}

func TestConfigGetCommand(t *testing.T) {
	repo := newTestRepo(t, "tag")

	out, err := execute(t, "config-get", "release-branch.master.track", repo.dir)
	require.NoError(t, err)
	assert.Equal(t, "tag\n", out)

	out, err = execute(t, "config-get", "release-branch.unset.track", repo.dir)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestContainsCommand(t *testing.T) {
	repo := newTestRepo(t, "tag")

	out, err := execute(t, "contains", repo.commit1.String(), repo.dir)
	require.NoError(t, err)
	assert.Equal(t, "master\n", out)
}
