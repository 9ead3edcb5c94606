package gitx

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/gitcam/cli/cmd/gitcam/cli/stringutil"
)

// CommitSummary is one line of history context.
type CommitSummary struct {
	Hash    string
	When    time.Time
	Subject string
}

// ShortHash returns the abbreviated commit hash.
func (c CommitSummary) ShortHash() string {
	if len(c.Hash) >= 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// RecentCommits returns up to limit most recent non-merge commits, newest
// first in go-git's native log order. A repository with fewer commits (or no
// commits at all) returns what exists without error.
func (r *Repo) RecentCommits(limit int) ([]CommitSummary, error) {
	return r.logCommits(limit, nil)
}

// RecentCommitsForPath returns up to limit most recent commits whose change
// set touched path, newest first.
func (r *Repo) RecentCommitsForPath(path string, limit int) ([]CommitSummary, error) {
	return r.logCommits(limit, &path)
}

func (r *Repo) logCommits(limit int, path *string) ([]CommitSummary, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := &git.LogOptions{FileName: path}
	iter, err := r.repo.Log(opts)
	if err != nil {
		// An unborn HEAD has no history yet.
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []CommitSummary
	err = iter.ForEach(func(c *object.Commit) error {
		// Merge commits carry no reviewable change of their own.
		if path == nil && c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, CommitSummary{
			Hash:    c.Hash.String(),
			When:    c.Committer.When,
			Subject: stringutil.FirstLine(c.Message),
		})
		if len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating log: %w", err)
	}

	return commits, nil
}
