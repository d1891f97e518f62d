// Package gitrepo is the repository gateway: a thin wrapper over go-git
// exposing the handful of primitives the release tooling needs.
//
// It deliberately hides go-git types from callers. Consumers see plain
// strings (40-hex content hashes, short ref names) and small structs, so
// the discovery engine and the CLI commands can be tested against fakes
// without a real repository on disk.
//
// Path resolution mirrors git's own conventions: an explicit path wins,
// then $GIT_DIR, then upward discovery from the working directory.
// The release ledger and the build hook both live inside the resolved
// git directory (releases.sqlite3 and hooks/release respectively), so a
// bare repository keeps everything under its root and a worktree keeps
// everything under .git/.
package gitrepo
