package gitx

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// StagedCode is the index-side status letter git reports for a staged path.
type StagedCode byte

const (
	CodeAdded    StagedCode = 'A'
	CodeModified StagedCode = 'M'
	CodeDeleted  StagedCode = 'D'
	CodeRenamed  StagedCode = 'R'
)

// StagedChange is one staged path as reported by `git status --porcelain`,
// before normalization into a payload entry.
type StagedChange struct {
	Path     string
	PrevPath string // set for renames
	Code     StagedCode
}

// ListStagedChanges returns the staged changes in git's natural staged order.
// Unstaged and untracked paths are excluded. An empty result is not an error
// here; the diff normalizer decides how to report it.
func (r *Repo) ListStagedChanges(ctx context.Context) ([]StagedChange, error) {
	out, err := r.gitOutput(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	var changes []StagedChange
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		staged := line[0]
		path := strings.Trim(line[3:], `"`)

		// First column is the index side; space or ? means nothing staged.
		if staged == ' ' || staged == '?' {
			continue
		}

		change := StagedChange{Path: path}
		switch staged {
		case 'A':
			change.Code = CodeAdded
		case 'D':
			change.Code = CodeDeleted
		case 'R':
			change.Code = CodeRenamed
			if old, now, ok := strings.Cut(path, " -> "); ok {
				change.PrevPath = strings.Trim(old, `"`)
				change.Path = strings.Trim(now, `"`)
			}
		default:
			// M, T, C and anything else git grows: treat as a content change
			// so no staged path is ever silently dropped.
			change.Code = CodeModified
		}
		changes = append(changes, change)
	}

	return changes, nil
}

// StagedDiff returns the unified diff between HEAD and the index for one path.
// Mode-only changes yield an empty string, which is still a valid entry.
func (r *Repo) StagedDiff(ctx context.Context, path string) (string, error) {
	return r.gitOutput(ctx, "diff", "--cached", "--", path)
}

// StagedFiles returns just the staged paths, for handing to hook runners.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	changes, err := r.ListStagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.Code == CodeDeleted {
			continue
		}
		files = append(files, c.Path)
	}
	return files, nil
}

// StagedContent reads the staged (index) blob for path, up to maxBytes.
// Used to include the body of newly added files in the payload.
func (r *Repo) StagedContent(path string, maxBytes int64) ([]byte, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	entry, err := idx.Entry(path)
	if err != nil {
		return nil, fmt.Errorf("index entry %s: %w", path, err)
	}

	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, fmt.Errorf("blob for %s: %w", path, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening blob for %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading blob for %s: %w", path, err)
	}
	return data, nil
}

// HeadContent reads the committed blob for path at HEAD, up to maxBytes.
// Used to describe what a staged deletion removed.
func (r *Repo) HeadContent(path string, maxBytes int64) ([]byte, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("HEAD commit: %w", err)
	}

	file, err := commit.File(path)
	if err != nil {
		return nil, fmt.Errorf("HEAD file %s: %w", path, err)
	}

	reader, err := file.Blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening HEAD blob for %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading HEAD blob for %s: %w", path, err)
	}
	return data, nil
}

// StageAll stages every modification, addition, and deletion (`git add -A`).
func (r *Repo) StageAll(ctx context.Context) error {
	cmd := r.runner(ctx, "git", "add", "-A")
	cmd.Dir = r.root
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("staging all files: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
