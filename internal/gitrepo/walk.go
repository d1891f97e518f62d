package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrStop terminates a walk early without reporting an error.
var ErrStop = errors.New("stop walk")

// Walk visits every commit reachable from the given hash exactly once,
// in topological order: a commit is visited only after every one of its
// children reachable from the same starting point. Returning ErrStop
// from fn ends the walk cleanly; any other error aborts it.
func (r *Repo) Walk(from string, fn func(hash string) error) error {
	return r.walk(from, func(c *object.Commit) error {
		return fn(c.Hash.String())
	})
}

// WalkCommits is Walk with the full gateway view of each commit, for
// callers that need messages and committer identities.
func (r *Repo) WalkCommits(from string, fn func(c Commit) error) error {
	return r.walk(from, func(c *object.Commit) error {
		return fn(Commit{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Committer: Signature{
				Name:  c.Committer.Name,
				Email: c.Committer.Email,
				When:  c.Committer.When,
			},
		})
	})
}

// walk emits the reachable subgraph in topological order. go-git's log
// orderings are all pre-order traversals that can emit a merge base
// before the merge's second parent line, so the ordering is done here:
// load the reachable commits, count each one's children, and only emit
// a commit once all of its children have been emitted.
func (r *Repo) walk(from string, fn func(c *object.Commit) error) error {
	start, err := r.repo.CommitObject(plumbing.NewHash(from))
	if err != nil {
		return fmt.Errorf("walk history from %s: %w", from, err)
	}

	commits := map[plumbing.Hash]*object.Commit{start.Hash: start}
	children := map[plumbing.Hash]int{}
	frontier := []*object.Commit{start}
	for len(frontier) > 0 {
		c := frontier[0]
		frontier = frontier[1:]
		for _, p := range c.ParentHashes {
			children[p]++
			if _, seen := commits[p]; seen {
				continue
			}
			pc, err := r.repo.CommitObject(p)
			if err != nil {
				return fmt.Errorf("walk history from %s: %w", from, err)
			}
			commits[p] = pc
			frontier = append(frontier, pc)
		}
	}

	// Parents are stacked in reverse so the first-parent line is
	// followed first, keeping the order deterministic.
	stack := []*object.Commit{start}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(c); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return fmt.Errorf("walk history from %s: %w", from, err)
		}
		for i := len(c.ParentHashes) - 1; i >= 0; i-- {
			p := c.ParentHashes[i]
			children[p]--
			if children[p] == 0 {
				stack = append(stack, commits[p])
			}
		}
	}
	return nil
}

// Contains returns the local branches whose history includes the given
// commit.
func (r *Repo) Contains(hash string) ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, err
	}
	var found []string
	for _, b := range branches {
		match := false
		err := r.Walk(b.Tip, func(h string) error {
			if h == hash {
				match = true
				return ErrStop
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if match {
			found = append(found, b.Name)
		}
	}
	return found, nil
}
