// Package hooks resolves and runs the pre-commit step of a commit session.
package hooks

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
)

// Mode is the hook decision resolved from the command-line flags before any
// hook work starts.
type Mode int

const (
	// ModeAuto runs hooks when the repository has them configured.
	ModeAuto Mode = iota
	// ModeForce runs hooks without asking, even when the repository has no
	// pre-commit config, as long as the tool itself is installed.
	ModeForce
	// ModeSkip never runs hooks.
	ModeSkip
)

// BypassReasonForced is recorded on the payload when the user skips a failed
// hook run and commits anyway.
const BypassReasonForced = "Used --force-commit flag"

// ResolveMode maps the flag pair to a mode. Skip wins over force when both
// are set.
func ResolveMode(runFlag, skipFlag bool) Mode {
	switch {
	case skipFlag:
		return ModeSkip
	case runFlag:
		return ModeForce
	default:
		return ModeAuto
	}
}

// Result reports one hook run.
type Result struct {
	// Ran is false when hooks were skipped or not configured.
	Ran       bool
	Succeeded bool
	// Output is the combined stdout and stderr of the hook process.
	Output string
}

// Orchestrator detects and runs pre-commit against the staged files.
type Orchestrator struct {
	Root string

	// Runner and LookPath are injectable for tests.
	Runner   gitx.Runner
	LookPath func(file string) (string, error)
}

// New returns an orchestrator for the repository rooted at root.
func New(root string) *Orchestrator {
	return &Orchestrator{
		Root:     root,
		Runner:   exec.CommandContext,
		LookPath: exec.LookPath,
	}
}

// BinaryPresent reports whether the pre-commit tool is on PATH. Force mode
// still needs the tool; without it there is nothing to run.
func (o *Orchestrator) BinaryPresent() bool {
	_, err := o.LookPath("pre-commit")
	return err == nil
}

// Configured reports whether the repository is set up for pre-commit: the
// binary is on PATH and the config file exists at the repository root.
func (o *Orchestrator) Configured() bool {
	if !o.BinaryPresent() {
		return false
	}
	_, err := os.Stat(filepath.Join(o.Root, ".pre-commit-config.yaml"))
	return err == nil
}

// Run executes pre-commit against the given staged files and captures its
// combined output. A non-zero exit is a failed result, not an error; errors
// are reserved for being unable to run the tool at all.
func (o *Orchestrator) Run(ctx context.Context, files []string) (Result, error) {
	args := append([]string{"run", "--files"}, files...)
	cmd := o.Runner(ctx, "pre-commit", args...)
	cmd.Dir = o.Root

	out, err := cmd.CombinedOutput()
	res := Result{Ran: true, Output: string(out)}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, err
		}
		return res, nil
	}
	res.Succeeded = true
	return res, nil
}
