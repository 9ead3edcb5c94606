package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
	"github.com/gitcam/cli/cmd/gitcam/cli/hooks"
	"github.com/gitcam/cli/cmd/gitcam/cli/llm"
	"github.com/gitcam/cli/cmd/gitcam/cli/logging"
	"github.com/gitcam/cli/cmd/gitcam/cli/payload"
	"github.com/gitcam/cli/cmd/gitcam/cli/session"
	"github.com/gitcam/cli/cmd/gitcam/cli/settings"
	"github.com/gitcam/cli/cmd/gitcam/cli/ui"
)

type commitOptions struct {
	all           bool
	verbose       bool
	preCommit     bool
	skipPreCommit bool
	forceCommit   bool
}

func runCommit(cmd *cobra.Command, opts commitOptions) error {
	ctx := cmd.Context()

	repo, err := gitx.Open()
	if err != nil {
		if errors.Is(err, gitx.ErrNotARepository) {
			fmt.Println(ui.Error("Not inside a git repository"))
			return NewSilentError(err)
		}
		return err
	}

	logging.Init(repo.Root(), "commit")
	defer logging.Close()

	var setFlags []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		setFlags = append(setFlags, "--"+f.Name)
	})
	logging.Info(ctx, "starting commit session", "flags", setFlags)

	cfg, err := settings.Load(&settings.GitConfigStore{})
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		fmt.Println(ui.Error("No API key configured. Run 'gitcam setup' first."))
		return NewSilentError(errors.New("missing api key"))
	}

	client := llm.NewClient(cfg.APIKey, cfg.Model, cfg.TokenLimit)
	runner := &session.Runner{
		Git:       repo,
		Hooks:     hooks.New(repo.Root()),
		Generator: client,
		Builder: &payload.Builder{
			Normalizer: &payload.Normalizer{Source: repo},
			Selector:   &payload.Selector{Limit: cfg.HistoryLimit, Source: repo},
			Budget:     cfg.TokenLimit,
		},
		Prompter: huhPrompter{},
		Opts: session.Options{
			AutoStage:     opts.all,
			Verbose:       opts.verbose,
			HookMode:      hooks.ResolveMode(opts.preCommit, opts.skipPreCommit),
			ForceCommit:   opts.forceCommit,
			Instructions:  cfg.Instructions,
			EstimateUnits: payload.DefaultEstimator.Units,
		},
	}

	if opts.all {
		fmt.Println(ui.Prompt("Staging all modified files..."))
	}

	s, err := runner.Run(ctx)
	return reportOutcome(s, err)
}

func reportOutcome(s *session.Session, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, payload.ErrEmptyChangeSet):
		fmt.Println(ui.Error("No changes staged for commit"))
		return NewSilentError(err)
	case errors.Is(err, session.ErrCriticalFindings):
		fmt.Println(ui.Error(err.Error()))
		fmt.Println(ui.Warning("Auto-commit cancelled for safety. Please review these issues carefully."))
		fmt.Println(ui.Warning("To bypass this check, run 'gitcam' without the -a flag and confirm the changes are intended."))
		return NewSilentError(err)
	default:
		var commitErr *gitx.CommitError
		if errors.As(err, &commitErr) {
			fmt.Println(ui.Error("Commit failed:"))
			fmt.Println(commitErr.Output)
			fmt.Println(ui.Warning("Your staged changes are untouched."))
			return NewSilentError(err)
		}
		return err
	}

	switch s.State {
	case session.StateCompleted:
		fmt.Println(ui.Success("Commit created successfully!"))
		fmt.Println(ui.MessageHeader())
		fmt.Printf("\n%s\n", s.CandidateMessage)
	case session.StateCancelled:
		fmt.Println(ui.Warning("Commit cancelled"))
	}
	return nil
}
