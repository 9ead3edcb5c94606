// Package gitx is the git facade for gitcam.
//
// Read-only repository access (log, index, blobs) goes through go-git.
// Index-mutating operations (staging, committing) and the staged diff go
// through the git binary via os/exec so that hook execution, rename
// detection, and index-lock semantics stay exactly git's own.
package gitx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrNotARepository indicates the working directory is not inside a git
// repository. Fatal; reported before any session state machine entry.
var ErrNotARepository = errors.New("not inside a git repository")

// Runner is the subprocess execution hook, injectable for tests.
type Runner func(ctx context.Context, name string, args ...string) *exec.Cmd

// Repo wraps an opened repository plus the exec runner used for the
// operations that must go through the git binary.
type Repo struct {
	repo *git.Repository
	root string

	runner Runner
}

// Open discovers and opens the repository containing the current directory.
// Returns ErrNotARepository when there is none up to the filesystem boundary.
func Open() (*Repo, error) {
	return OpenPath(".")
}

// OpenPath opens the repository containing dir.
func OpenPath(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w (stopping at filesystem boundary)", ErrNotARepository)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}

	return &Repo{
		repo:   repo,
		root:   wt.Filesystem.Root(),
		runner: exec.CommandContext,
	}, nil
}

// Root returns the absolute path of the working tree root.
func (r *Repo) Root() string {
	return r.root
}

// SetRunner replaces the subprocess runner (for tests).
func (r *Repo) SetRunner(runner Runner) {
	r.runner = runner
}

// gitOutput runs a git command in the repository root and returns stdout.
func (r *Repo) gitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := r.runner(ctx, "git", args...)
	cmd.Dir = r.root
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
