// Package testutil provides test doubles shared across packages, chiefly
// a fake repository gateway whose topology is declared in YAML.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reltrack/reltrack/internal/gitrepo"
)

// RepoFixture declares the state of a fake repository. Example:
//
//	config:
//	  release-branch.stable.track: tag
//	branches:
//	  - name: stable
//	    history: [ccc, bbb, aaa]
//	tags:
//	  - name: refs/tags/v1.0
//	    commit: aaa
//	commits:
//	  - hash: aaa
//	    when: 2024-03-15T10:30:45Z
//
// History lists commits tip-first, the order a walk visits them.
type RepoFixture struct {
	Config   map[string]string `yaml:"config,omitempty"`
	Branches []BranchFixture   `yaml:"branches,omitempty"`
	Tags     []TagFixture      `yaml:"tags,omitempty"`
	Commits  []CommitFixture   `yaml:"commits,omitempty"`
}

// BranchFixture declares a branch and its walk order.
type BranchFixture struct {
	Name    string   `yaml:"name"`
	History []string `yaml:"history"` // tip first
}

// TagFixture declares a tag pointing at a commit.
type TagFixture struct {
	Name   string `yaml:"name"`
	Commit string `yaml:"commit"`
}

// CommitFixture declares a commit's timestamp.
type CommitFixture struct {
	Hash string    `yaml:"hash"`
	When time.Time `yaml:"when"`
}

// FakeRepo implements the discovery engine's Repository interface from a
// RepoFixture.
type FakeRepo struct {
	fixture RepoFixture
	commits map[string]CommitFixture
}

// LoadRepo parses a YAML fixture into a FakeRepo, failing the test on
// malformed YAML.
func LoadRepo(t *testing.T, source string) *FakeRepo {
	t.Helper()
	var fixture RepoFixture
	if err := yaml.Unmarshal([]byte(source), &fixture); err != nil {
		t.Fatalf("parse repo fixture: %v", err)
	}
	return NewFakeRepo(fixture)
}

// NewFakeRepo builds a FakeRepo directly from a fixture value.
func NewFakeRepo(fixture RepoFixture) *FakeRepo {
	commits := make(map[string]CommitFixture, len(fixture.Commits))
	for _, c := range fixture.Commits {
		commits[c.Hash] = c
	}
	return &FakeRepo{fixture: fixture, commits: commits}
}

// Branches returns the declared branches, tips resolved from their
// history.
func (f *FakeRepo) Branches() ([]gitrepo.Branch, error) {
	var branches []gitrepo.Branch
	for _, b := range f.fixture.Branches {
		tip := ""
		if len(b.History) > 0 {
			tip = b.History[0]
		}
		branches = append(branches, gitrepo.Branch{Name: b.Name, Tip: tip})
	}
	return branches, nil
}

// Tags returns the declared tags in declaration order.
func (f *FakeRepo) Tags() ([]gitrepo.Tag, error) {
	var tags []gitrepo.Tag
	for _, t := range f.fixture.Tags {
		tags = append(tags, gitrepo.Tag{Name: t.Name, Commit: t.Commit})
	}
	return tags, nil
}

// CommitTime returns the declared timestamp for a commit.
func (f *FakeRepo) CommitTime(hash string) (time.Time, error) {
	c, ok := f.commits[hash]
	if !ok {
		return time.Time{}, fmt.Errorf("no such commit %q", hash)
	}
	return c.When, nil
}

// Walk visits the history of the branch whose tip matches from.
func (f *FakeRepo) Walk(from string, fn func(hash string) error) error {
	for _, b := range f.fixture.Branches {
		if len(b.History) == 0 || b.History[0] != from {
			continue
		}
		for _, hash := range b.History {
			if err := fn(hash); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("no branch with tip %q", from)
}

// ConfigValue returns the declared configuration value, or "" when
// unset.
func (f *FakeRepo) ConfigValue(key string) (string, error) {
	return f.fixture.Config[key], nil
}
