package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
	"github.com/gitcam/cli/cmd/gitcam/cli/hooks"
	"github.com/gitcam/cli/cmd/gitcam/cli/llm"
	"github.com/gitcam/cli/cmd/gitcam/cli/logging"
	"github.com/gitcam/cli/cmd/gitcam/cli/payload"
)

// ErrCriticalFindings ends an auto-stage session when the review raises a
// blocking finding. Interactive sessions surface the finding to the
// operator instead.
var ErrCriticalFindings = errors.New("review found critical issues")

// Git is the slice of the git facade the runner needs. *gitx.Repo
// satisfies it.
type Git interface {
	ListStagedChanges(ctx context.Context) ([]gitx.StagedChange, error)
	StagedFiles(ctx context.Context) ([]string, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string, noVerify bool) error
}

// Hooks runs the pre-commit step. *hooks.Orchestrator satisfies it.
type Hooks interface {
	BinaryPresent() bool
	Configured() bool
	Run(ctx context.Context, files []string) (hooks.Result, error)
}

// Generator produces reviews and commit messages. *llm.Client satisfies it.
type Generator interface {
	ReviewChanges(ctx context.Context, payloadText, instructions string) (llm.Review, error)
	CommitMessage(ctx context.Context, payloadText, reviewText, instructions string) (string, error)
}

// Builder assembles the change payload. *payload.Builder satisfies it.
type Builder interface {
	Build(ctx context.Context, changes []gitx.StagedChange) (payload.ContextPayload, error)
}

// HookChoice is the operator's answer to a failed hook run.
type HookChoice int

const (
	HookRetry HookChoice = iota
	HookProceed
	HookCancel
)

// MessageChoice is the operator's answer to a candidate commit message.
type MessageChoice int

const (
	ChoiceAccept MessageChoice = iota
	ChoiceRegenerate
	ChoiceCancel
)

// Prompter is the interactive surface. Every method is a synchronous
// blocking read; the session only suspends at these points.
type Prompter interface {
	// HookFailure shows failed hook output and asks retry, proceed
	// (returning a bypass reason), or cancel.
	HookFailure(output string) (HookChoice, string, error)

	// PreviewPayload shows the assembled payload in verbose mode and asks
	// whether to continue.
	PreviewPayload(payloadText string, units int) (bool, error)

	// ReviewFeedback shows the review and asks whether to proceed,
	// optionally collecting extra context for message generation.
	ReviewFeedback(review llm.Review) (proceed bool, userContext string, err error)

	// RetryGeneration reports a failed generation and asks whether to try
	// again with the same payload.
	RetryGeneration(stage string, genErr error) (bool, error)

	// MessageDecision shows the candidate message and asks accept,
	// regenerate (optionally with extra context), or cancel.
	MessageDecision(message string) (MessageChoice, string, error)
}

// Options configures one session run.
type Options struct {
	// AutoStage stages everything first, skips the hook step, and commits
	// the first acceptable message without prompting.
	AutoStage bool

	// Verbose previews the assembled payload before any generation.
	Verbose bool

	HookMode    hooks.Mode
	ForceCommit bool

	// Instructions is the user's stored global guidance, possibly empty.
	Instructions string

	// EstimateUnits reports the unit cost of the rendered payload for the
	// verbose preview. Optional.
	EstimateUnits func(text string) int
}

// Session is the mutable state of one run. The payload is built exactly
// once; regeneration reuses it with only the user context growing.
type Session struct {
	State            State
	Payload          payload.ContextPayload
	CandidateMessage string
	RegenerateCount  int
}

func (s *Session) apply(event Event) error {
	next, err := Transition(s.State, event)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// Runner wires the collaborators together and executes the session.
type Runner struct {
	Git       Git
	Hooks     Hooks
	Generator Generator
	Builder   Builder
	Prompter  Prompter
	Opts      Options
}

// Run executes a complete commit session on the calling goroutine. The
// returned session always carries a terminal state unless err reports a
// condition raised before the state machine was entered (no staged
// changes, repository errors).
func (r *Runner) Run(ctx context.Context) (*Session, error) {
	ctx = logging.WithComponent(ctx, "session")
	s := &Session{State: StateIdle}

	if r.Opts.AutoStage {
		if err := r.Git.StageAll(ctx); err != nil {
			return s, err
		}
	}

	changes, err := r.Git.ListStagedChanges(ctx)
	if err != nil {
		return s, err
	}
	if len(changes) == 0 {
		return s, payload.ErrEmptyChangeSet
	}

	bypassReason, hooksRan, cancelled, err := r.runHooks(ctx, s)
	if err != nil || cancelled {
		return s, err
	}

	if hooksRan {
		// Hooks may have rewritten files; pick up the post-hook index.
		if changes, err = r.refreshChanges(ctx, s, changes); err != nil {
			return s, err
		}
		if s.State.Terminal() {
			return s, payload.ErrEmptyChangeSet
		}
	}

	p, err := r.Builder.Build(ctx, changes)
	if err != nil {
		return s, err
	}
	p.HookBypassReason = bypassReason
	s.Payload = p

	if r.Opts.Verbose {
		text := s.Payload.Render()
		units := 0
		if r.Opts.EstimateUnits != nil {
			units = r.Opts.EstimateUnits(text)
		}
		proceed, err := r.Prompter.PreviewPayload(text, units)
		if err != nil {
			return s, err
		}
		if !proceed {
			return s, s.apply(EventCancel)
		}
	}

	review, cancelled, err := r.review(ctx, s)
	if err != nil || cancelled {
		return s, err
	}

	if cancelled, err := r.chooseMessage(ctx, s, review); err != nil || cancelled {
		return s, err
	}

	return s, r.commit(ctx, s, bypassReason != "")
}

// runHooks resolves and executes the hook step, driving the machine from
// Idle into Reviewing (or a terminal state). It returns the bypass reason
// captured when failed hooks were overridden or waved through.
func (r *Runner) runHooks(ctx context.Context, s *Session) (reason string, ran, cancelled bool, err error) {
	// Force mode drops the "configured for this repo" check but still needs
	// the tool installed; with it absent there is nothing to run and the
	// session proceeds straight to review.
	var required bool
	switch {
	case r.Opts.AutoStage || r.Opts.HookMode == hooks.ModeSkip:
		required = false
	case r.Opts.HookMode == hooks.ModeForce:
		required = r.Hooks.BinaryPresent()
	default:
		required = r.Hooks.Configured()
	}

	if !required {
		return "", false, false, s.apply(EventStartWithoutHooks)
	}
	if err := s.apply(EventStartWithHooks); err != nil {
		return "", false, false, err
	}

	for {
		files, err := r.Git.StagedFiles(ctx)
		if err != nil {
			return "", true, false, err
		}

		start := time.Now()
		res, err := r.Hooks.Run(ctx, files)
		if err != nil {
			// Could not run the hook tool at all; not a hook failure.
			if cancelErr := s.apply(EventCancel); cancelErr != nil {
				return "", true, false, cancelErr
			}
			return "", true, true, fmt.Errorf("running pre-commit hooks: %w", err)
		}
		logging.LogDuration(ctx, slog.LevelInfo, "hooks executed", start,
			"files", len(files), "succeeded", res.Succeeded)

		if res.Succeeded {
			return "", true, false, s.apply(EventHooksPassed)
		}
		if r.Opts.ForceCommit {
			return hooks.BypassReasonForced, true, false, s.apply(EventHooksOverridden)
		}

		if err := s.apply(EventHooksFailed); err != nil {
			return "", true, false, err
		}
		choice, bypass, err := r.Prompter.HookFailure(res.Output)
		if err != nil {
			return "", true, false, err
		}
		switch choice {
		case HookRetry:
			if err := s.apply(EventRetryHooks); err != nil {
				return "", true, false, err
			}
		case HookProceed:
			return bypass, true, false, s.apply(EventProceedAnyway)
		default:
			return "", true, true, s.apply(EventCancel)
		}
	}
}

// refreshChanges re-reads the staged set after a hook run. Hooks emptying
// the index cancels the session.
func (r *Runner) refreshChanges(ctx context.Context, s *Session, prev []gitx.StagedChange) ([]gitx.StagedChange, error) {
	changes, err := r.Git.ListStagedChanges(ctx)
	if err != nil {
		return prev, err
	}
	if len(changes) == 0 {
		return nil, s.apply(EventCancel)
	}
	return changes, nil
}

// review generates the code review, retrying on operator request, and
// collects the operator's go-ahead plus optional extra context.
func (r *Runner) review(ctx context.Context, s *Session) (llm.Review, bool, error) {
	var review llm.Review
	for {
		var err error
		review, err = r.Generator.ReviewChanges(ctx, s.Payload.Render(), r.Opts.Instructions)
		if err == nil {
			break
		}
		logging.Warn(ctx, "review generation failed", "error", err.Error())
		retry, perr := r.Prompter.RetryGeneration("review", err)
		if perr != nil {
			return review, false, perr
		}
		if !retry {
			return review, true, s.apply(EventCancel)
		}
	}

	if r.Opts.AutoStage {
		if review.Critical {
			if err := s.apply(EventCancel); err != nil {
				return review, false, err
			}
			return review, true, fmt.Errorf("%w:\n%s", ErrCriticalFindings, review.Text)
		}
		return review, false, nil
	}

	proceed, userContext, err := r.Prompter.ReviewFeedback(review)
	if err != nil {
		return review, false, err
	}
	if !proceed {
		return review, true, s.apply(EventCancel)
	}
	s.Payload.UserContext = userContext
	return review, false, nil
}

// chooseMessage drives the generate/accept/regenerate loop until the
// operator accepts or cancels.
func (r *Runner) chooseMessage(ctx context.Context, s *Session, review llm.Review) (bool, error) {
	for {
		msg, err := r.Generator.CommitMessage(ctx, s.Payload.Render(), review.Text, r.Opts.Instructions)
		if err != nil {
			logging.Warn(ctx, "message generation failed", "error", err.Error())
			retry, perr := r.Prompter.RetryGeneration("message", err)
			if perr != nil {
				return false, perr
			}
			if !retry {
				return true, s.apply(EventCancel)
			}
			continue
		}

		if s.State == StateReviewing {
			if err := s.apply(EventMessageReady); err != nil {
				return false, err
			}
		}
		s.CandidateMessage = msg

		if r.Opts.AutoStage {
			return false, s.apply(EventAccept)
		}

		choice, extra, err := r.Prompter.MessageDecision(msg)
		if err != nil {
			return false, err
		}
		switch choice {
		case ChoiceAccept:
			return false, s.apply(EventAccept)
		case ChoiceRegenerate:
			if err := s.apply(EventRegenerate); err != nil {
				return false, err
			}
			s.RegenerateCount++
			if extra != "" {
				s.Payload.UserContext = joinContext(s.Payload.UserContext, extra)
			}
		default:
			return true, s.apply(EventCancel)
		}
	}
}

// commit performs the single commit attempt of the session.
func (r *Runner) commit(ctx context.Context, s *Session, noVerify bool) error {
	if err := r.Git.Commit(ctx, s.CandidateMessage, noVerify); err != nil {
		if applyErr := s.apply(EventCommitFailed); applyErr != nil {
			return applyErr
		}
		return err
	}
	logging.Info(ctx, "commit created")
	return s.apply(EventCommitSucceeded)
}

func joinContext(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "\n" + extra
}
