package gitx

import (
	"context"
	"fmt"
	"strings"
)

// CommitError is a failed commit attempt. The staged index is left exactly as
// it was; the diagnostic output is surfaced to the operator.
type CommitError struct {
	Output string
	Err    error
}

func (e *CommitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git commit failed: %s", e.Output)
	}
	return fmt.Sprintf("git commit failed: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Commit creates a commit with message used verbatim. noVerify skips git's
// own hook execution, used after hook failures were already handled in the
// session. The call is attempted exactly once; an index-lock conflict or any
// other failure is returned as a *CommitError.
func (r *Repo) Commit(ctx context.Context, message string, noVerify bool) error {
	args := []string{"commit", "-m", message}
	if noVerify {
		args = append(args, "--no-verify")
	}

	cmd := r.runner(ctx, "git", args...)
	cmd.Dir = r.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &CommitError{Output: strings.TrimSpace(string(out)), Err: err}
	}
	return nil
}
