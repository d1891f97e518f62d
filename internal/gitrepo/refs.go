package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// Branches returns the local branches, each resolved to its tip commit.
func (r *Repo) Branches() ([]Branch, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer iter.Close()

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, Branch{
			Name: ref.Name().Short(),
			Tip:  ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}
	return branches, nil
}

// RemoteBranches returns remote-tracking branches, excluding the
// symbolic */HEAD entries.
func (r *Repo) RemoteBranches() ([]Branch, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference || !ref.Name().IsRemote() {
			return nil
		}
		branches = append(branches, Branch{
			Name: ref.Name().Short(),
			Tip:  ref.Hash().String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate references: %w", err)
	}
	return branches, nil
}

// Tags returns every tag in the repository in enumeration order, each
// peeled to the commit it ultimately points at. Tags that do not resolve
// to a commit (e.g. tags of trees) are omitted.
func (r *Repo) Tags() ([]Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target, ok := r.peelToCommit(ref.Hash())
		if !ok {
			return nil
		}
		tags = append(tags, Tag{
			Name:   ref.Name().String(),
			Commit: target.String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// peelToCommit follows annotated tag objects until a commit is reached.
// Lightweight tags point directly at a commit.
func (r *Repo) peelToCommit(hash plumbing.Hash) (plumbing.Hash, bool) {
	if _, err := r.repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for i := 0; i < 8; i++ {
		tag, err := r.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
