package cli

import (
	"github.com/reltrack/reltrack/internal/gitrepo"
)

// openRepo opens the repository named by the optional trailing PATH
// argument. Every command honours the same resolution order: explicit
// path, then $GIT_DIR, then discovery from the working directory.
func openRepo(args []string, pathIndex int) (*gitrepo.Repo, error) {
	path := ""
	if len(args) > pathIndex {
		path = args[pathIndex]
	}
	repo, err := gitrepo.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open repository", err)
	}
	return repo, nil
}
