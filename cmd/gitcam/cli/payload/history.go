package payload

import (
	"fmt"
	"strings"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
	"github.com/gitcam/cli/cmd/gitcam/cli/stringutil"
)

// HistorySource is the slice of the git facade the selector needs.
type HistorySource interface {
	RecentCommits(limit int) ([]gitx.CommitSummary, error)
	RecentCommitsForPath(path string, limit int) ([]gitx.CommitSummary, error)
}

const (
	// maxHistoryPaths caps how many changed paths get per-file history.
	maxHistoryPaths = 5

	// maxCommitsPerPath caps per-file history depth regardless of the
	// configured limit; a handful of commits per file is enough signal.
	maxCommitsPerPath = 3

	// historySubjectRunes truncates long commit subjects in rendered history.
	historySubjectRunes = 72
)

// History holds the selected commit context before budgeting.
type History struct {
	Global  []gitx.CommitSummary
	PerFile []PathHistory
}

// PathHistory is the recent commits touching one changed path.
type PathHistory struct {
	Path    string
	Commits []gitx.CommitSummary
}

// Selector retrieves bounded commit history for the payload.
type Selector struct {
	// Limit is the configured history limit (0-20). Zero disables history
	// entirely: Select returns an empty History and issues no source calls.
	Limit int

	Source HistorySource
}

// Select gathers global and per-file history for the given changed paths.
// Ordering is most-recent-first as reported by the source; ties keep the
// source's native log order.
func (s *Selector) Select(changedPaths []string) (History, error) {
	var h History
	if s.Limit <= 0 {
		return h, nil
	}

	global, err := s.Source.RecentCommits(s.Limit)
	if err != nil {
		return h, fmt.Errorf("selecting global history: %w", err)
	}
	h.Global = global

	perFileLimit := min(s.Limit, maxCommitsPerPath)
	for _, path := range changedPaths[:min(len(changedPaths), maxHistoryPaths)] {
		commits, err := s.Source.RecentCommitsForPath(path, perFileLimit)
		if err != nil {
			return h, fmt.Errorf("selecting history for %s: %w", path, err)
		}
		if len(commits) == 0 {
			continue
		}
		h.PerFile = append(h.PerFile, PathHistory{Path: path, Commits: commits})
	}

	return h, nil
}

// renderCommits formats commit summaries one per line, oneline style.
func renderCommits(commits []gitx.CommitSummary) string {
	var b strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&b, "  %s %s\n", c.ShortHash(), stringutil.TruncateRunes(c.Subject, historySubjectRunes, "..."))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderGlobal formats the repository-wide history block.
func (h History) RenderGlobal() string {
	if len(h.Global) == 0 {
		return ""
	}
	return "Recent commit history:\n" + renderCommits(h.Global)
}

// RenderPath formats the history block for one path.
func (ph PathHistory) Render() string {
	return fmt.Sprintf("Recent changes to %s:\n%s", ph.Path, renderCommits(ph.Commits))
}
