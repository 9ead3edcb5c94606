package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gitcam/cli/cmd/gitcam/cli/settings"
	"github.com/gitcam/cli/cmd/gitcam/cli/ui"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the API key, model, and global instructions",
		Long: "Interactive first-run configuration. Values are stored in your global\n" +
			"git config and apply to every repository on this machine.",
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runSetup(&settings.GitConfigStore{})
		},
	}
}

func runSetup(store settings.Store) error {
	cfg, err := settings.Load(store)
	if err != nil {
		return err
	}

	fmt.Println(ui.Header("gitcam setup"))

	apiKey := ""
	model := cfg.Model
	instructions := cfg.Instructions
	tokenLimit := strconv.Itoa(cfg.TokenLimit)
	historyLimit := strconv.Itoa(cfg.HistoryLimit)

	keyTitle := "Anthropic API key"
	if cfg.APIKey != "" {
		keyTitle = "Anthropic API key (press Enter to keep the current one)"
	}

	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewInput().
				Title(keyTitle).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Model").
				Description("The Anthropic model used for reviews and commit messages").
				Value(&model),
			huh.NewText().
				Title("Global instructions (optional)").
				Description("Included with every review and commit message request").
				Value(&instructions),
			huh.NewInput().
				Title("Response token limit").
				Validate(validatePositiveInt).
				Value(&tokenLimit),
			huh.NewInput().
				Title(fmt.Sprintf("History limit (0-%d, 0 disables history)", settings.MaxHistoryLimit)).
				Validate(validateHistoryLimit).
				Value(&historyLimit),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println(ui.Warning("Setup cancelled"))
			return NewSilentError(err)
		}
		return fmt.Errorf("running setup form: %w", err)
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" && cfg.APIKey == "" {
		fmt.Println(ui.Error("An API key is required"))
		return NewSilentError(errors.New("no api key entered"))
	}
	if apiKey != "" {
		if err := store.Set(settings.KeyAPIKey, apiKey); err != nil {
			return err
		}
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = settings.DefaultModel
	}
	if err := store.Set(settings.KeyModel, model); err != nil {
		return err
	}

	if _, err := settings.SetInstructions(store, instructions); err != nil {
		return err
	}
	if _, err := settings.SetTokenLimit(store, strings.TrimSpace(tokenLimit)); err != nil {
		return err
	}
	if _, err := settings.SetHistoryLimit(store, strings.TrimSpace(historyLimit)); err != nil {
		return err
	}

	fmt.Println(ui.Success("Setup complete"))
	fmt.Println(ui.Prompt("Model: " + model))
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

func validateHistoryLimit(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > settings.MaxHistoryLimit {
		return fmt.Errorf("enter a number between 0 and %d", settings.MaxHistoryLimit)
	}
	return nil
}
