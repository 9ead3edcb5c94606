package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitcam/cli/cmd/gitcam/cli/settings"
	"github.com/gitcam/cli/cmd/gitcam/cli/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change gitcam configuration values",
	}
	cmd.AddCommand(newInstructionsCmd())
	cmd.AddCommand(newTokenLimitCmd())
	cmd.AddCommand(newHistoryLimitCmd())
	return cmd
}

func newInstructionsCmd() *cobra.Command {
	var appendMode bool

	cmd := &cobra.Command{
		Use:   "instructions [text...]",
		Short: "Show or set the global instructions sent with every request",
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			store := &settings.GitConfigStore{}

			if len(args) == 0 {
				current, err := store.Get(settings.KeyInstructions)
				if err != nil {
					return err
				}
				if current == "" {
					fmt.Println("No global instructions set.")
					return nil
				}
				fmt.Println(current)
				return nil
			}

			text := strings.Join(args, " ")
			var (
				result string
				err    error
			)
			if appendMode {
				result, err = settings.AppendInstruction(store, text)
			} else {
				result, err = settings.SetInstructions(store, text)
			}
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Instructions updated"))
			fmt.Println(result)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&appendMode, "append", "a", false, "append to the existing instructions instead of replacing them")
	return cmd
}

func newTokenLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token-limit [limit]",
		Short: "Show or set the response token limit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store := &settings.GitConfigStore{}

			if len(args) == 0 {
				cfg, err := settings.Load(store)
				if err != nil {
					return err
				}
				fmt.Printf("Token limit: %d\n", cfg.TokenLimit)
				return nil
			}

			n, err := settings.SetTokenLimit(store, args[0])
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Token limit set to %d", n)))
			return nil
		},
	}
}

func newHistoryLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history-limit [limit]",
		Short: "Show or set how many recent commits of context to include",
		Long: fmt.Sprintf("Controls how many recent commits are summarized alongside each diff.\n"+
			"Accepts 0-%d; 0 disables history context entirely.", settings.MaxHistoryLimit),
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store := &settings.GitConfigStore{}

			if len(args) == 0 {
				cfg, err := settings.Load(store)
				if err != nil {
					return err
				}
				fmt.Printf("History limit: %d\n", cfg.HistoryLimit)
				return nil
			}

			n, err := settings.SetHistoryLimit(store, args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println(ui.Success("History context disabled"))
				return nil
			}
			fmt.Println(ui.Success(fmt.Sprintf("History limit set to %d", n)))
			return nil
		},
	}
}
