package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/gitcam/cli/cmd/gitcam/cli/llm"
	"github.com/gitcam/cli/cmd/gitcam/cli/session"
	"github.com/gitcam/cli/cmd/gitcam/cli/ui"
)

// huhPrompter implements session.Prompter over charmbracelet forms. Every
// prompt is a blocking read; Ctrl-C maps to the cancel choice rather than
// an error so the session ends in a clean Cancelled state.
type huhPrompter struct{}

func (huhPrompter) HookFailure(output string) (session.HookChoice, string, error) {
	fmt.Println(ui.Error("Pre-commit hooks failed:"))
	fmt.Println(output)

	choice := session.HookRetry
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewSelect[session.HookChoice]().
				Title("Hooks failed. What now?").
				Options(
					huh.NewOption("Retry after fixing", session.HookRetry),
					huh.NewOption("Commit anyway", session.HookProceed),
					huh.NewOption("Cancel", session.HookCancel),
				).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return session.HookCancel, "", nil
		}
		return session.HookCancel, "", fmt.Errorf("reading hook choice: %w", err)
	}
	if choice != session.HookProceed {
		return choice, "", nil
	}

	var reason string
	reasonForm := NewAccessibleForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reason for bypassing pre-commit hooks (optional)").
				Value(&reason),
		),
	)
	if err := reasonForm.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return session.HookCancel, "", nil
		}
		return session.HookCancel, "", fmt.Errorf("reading bypass reason: %w", err)
	}
	return session.HookProceed, strings.TrimSpace(reason), nil
}

func (huhPrompter) PreviewPayload(payloadText string, units int) (bool, error) {
	fmt.Println(ui.Header("Payload Preview"))
	fmt.Println(ui.DiffHeader())
	fmt.Println(payloadText)
	fmt.Println(ui.Separator())
	fmt.Printf("\nEstimated tokens: %d (NOTE: Just a rough guess!)\n", units)

	proceed := true
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Send this payload?").
				Value(&proceed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("reading preview confirmation: %w", err)
	}
	return proceed, nil
}

func (huhPrompter) ReviewFeedback(review llm.Review) (bool, string, error) {
	fmt.Println(ui.Header("Code Review"))
	fmt.Println(ui.ReviewHeader())

	text := review.Text
	if strings.Contains(text, llm.StopMarker) {
		text = strings.ReplaceAll(text, llm.StopMarker, ui.Error(llm.StopMarker))
	}
	if review.Critical || looksConcerned(review.Text) {
		fmt.Println(ui.Warning(text))
	} else {
		fmt.Println(ui.Success(text))
	}
	fmt.Println(ui.Separator())

	var input string
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Proceed with generating a commit message?").
				Description("Enter additional context, press Enter to continue, or 'n' to cancel").
				Value(&input),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("reading review feedback: %w", err)
	}

	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "n") {
		return false, "", nil
	}
	if strings.EqualFold(input, "y") {
		input = ""
	}
	return true, input, nil
}

func (huhPrompter) RetryGeneration(stage string, genErr error) (bool, error) {
	fmt.Println(ui.Error(fmt.Sprintf("Error during %s generation: %v", stage, genErr)))

	retry := false
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Try again?").
				Value(&retry),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("reading retry choice: %w", err)
	}
	return retry, nil
}

func (huhPrompter) MessageDecision(message string) (session.MessageChoice, string, error) {
	fmt.Println(ui.Header("Generated Commit Message"))
	fmt.Println(ui.MessageHeader())
	fmt.Printf("\n%s\n\n", message)
	fmt.Println(ui.Separator())

	choice := session.ChoiceAccept
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewSelect[session.MessageChoice]().
				Title("Accept this message?").
				Options(
					huh.NewOption("Accept", session.ChoiceAccept),
					huh.NewOption("Regenerate", session.ChoiceRegenerate),
					huh.NewOption("Cancel", session.ChoiceCancel),
				).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return session.ChoiceCancel, "", nil
		}
		return session.ChoiceCancel, "", fmt.Errorf("reading message choice: %w", err)
	}
	if choice != session.ChoiceRegenerate {
		return choice, "", nil
	}

	var extra string
	extraForm := NewAccessibleForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Anything to steer the next attempt? (optional)").
				Value(&extra),
		),
	)
	if err := extraForm.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return session.ChoiceCancel, "", nil
		}
		return session.ChoiceCancel, "", fmt.Errorf("reading regenerate context: %w", err)
	}
	return session.ChoiceRegenerate, strings.TrimSpace(extra), nil
}

// looksConcerned guesses whether a review flags anything, for tone only.
func looksConcerned(review string) bool {
	lower := strings.ToLower(review)
	return len(strings.Split(strings.TrimSpace(review), "\n")) > 1 ||
		strings.Contains(lower, "issue") ||
		strings.Contains(lower, "concern")
}
