// Package cli wires the commit assistant's commands, prompts, and
// collaborators together.
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and Commit are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const accessibilityHelp = `

Environment:
  ACCESSIBLE    Set to any value (e.g., ACCESSIBLE=1) to enable accessibility
                mode: prompts become plain line-based reads from stdin.
  GITCAM_LOG_LEVEL
                Log verbosity for .gitcam/logs (debug, info, warn, error).`

// NewRootCmd builds the gitcam command tree. Running the root command with
// no subcommand starts an interactive commit session.
func NewRootCmd() *cobra.Command {
	var opts commitOptions

	cmd := &cobra.Command{
		Use:   "gitcam",
		Short: "AI-assisted git commits",
		Long: "gitcam reviews your staged changes and writes the commit message for you," +
			" with pre-commit hook handling and repository-wide analysis." + accessibilityHelp,
		// Let main.go handle error printing to avoid duplication
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommit(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "stage all changes and commit without prompting")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "preview the payload before sending")
	cmd.Flags().BoolVar(&opts.preCommit, "pre-commit", false, "always run pre-commit hooks")
	cmd.Flags().BoolVar(&opts.skipPreCommit, "skip-pre-commit", false, "never run pre-commit hooks")
	cmd.Flags().BoolVar(&opts.forceCommit, "force-commit", false, "treat hook failures as non-fatal")

	cmd.AddCommand(newRecheckCmd())
	cmd.AddCommand(newSetupCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gitcam %s (%s)\n", Version, Commit)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
