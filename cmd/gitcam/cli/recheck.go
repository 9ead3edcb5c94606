package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gitcam/cli/cmd/gitcam/cli/gitx"
	"github.com/gitcam/cli/cmd/gitcam/cli/llm"
	"github.com/gitcam/cli/cmd/gitcam/cli/logging"
	"github.com/gitcam/cli/cmd/gitcam/cli/recheck"
	"github.com/gitcam/cli/cmd/gitcam/cli/settings"
	"github.com/gitcam/cli/cmd/gitcam/cli/ui"
)

func newRecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recheck [question...]",
		Short: "Analyze the whole repository for improvements",
		Long: "Walks every tracked text file, batches the contents, and asks the model\n" +
			"for recommendations. Pass a question to focus the analysis on it.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecheck(cmd, strings.Join(args, " "))
		},
	}
}

func runRecheck(cmd *cobra.Command, query string) error {
	ctx := cmd.Context()

	repo, err := gitx.Open()
	if err != nil {
		if errors.Is(err, gitx.ErrNotARepository) {
			fmt.Println(ui.Error("Not inside a git repository"))
			return NewSilentError(err)
		}
		return err
	}

	logging.Init(repo.Root(), "recheck")
	defer logging.Close()

	cfg, err := settings.Load(&settings.GitConfigStore{})
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		fmt.Println(ui.Error("No API key configured. Run 'gitcam setup' first."))
		return NewSilentError(errors.New("missing api key"))
	}

	fmt.Println(ui.Header("Repository Analysis..."))
	if query != "" {
		fmt.Println(ui.Prompt("Analysis focus: " + query))
	}

	analyzer := &recheck.Analyzer{
		Walker:   &recheck.Walker{Source: repo},
		Batcher:  &recheck.Batcher{},
		Client:   llm.NewClient(cfg.APIKey, cfg.Model, cfg.TokenLimit),
		Confirm:  confirmAnalysisCalls,
		Progress: func(line string) { fmt.Println(ui.Prompt(line)) },
	}

	report, err := analyzer.Run(ctx, query)
	if err != nil {
		switch {
		case errors.Is(err, recheck.ErrNoFiles):
			fmt.Println(ui.Error("No suitable files found for analysis"))
			return NewSilentError(err)
		case errors.Is(err, recheck.ErrCancelled):
			return NewSilentError(err)
		default:
			return err
		}
	}

	title := "Repository Analysis Results"
	if query != "" {
		title = "Analysis Results: " + query
	}
	fmt.Println(ui.Header(title))
	if query == "" {
		fmt.Println(ui.Success("\nRepository Structure:"))
		fmt.Println(report.Tree)
		fmt.Println("\n" + ui.Success("Recommendations:"))
	}
	fmt.Println(ui.Separator())
	fmt.Println(report.Summary)
	return nil
}

// confirmAnalysisCalls asks before spending a large number of generation
// calls on one analysis run.
func confirmAnalysisCalls(calls int) (bool, error) {
	ok := false
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("This analysis will make %d API calls. Continue?", calls)).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("reading analysis confirmation: %w", err)
	}
	if !ok {
		fmt.Println(ui.Warning("Analysis cancelled by user"))
	}
	return ok, nil
}
