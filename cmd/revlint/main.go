package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/revlint/internal/cli"
	"github.com/example/revlint/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "revlint",
		Short:   "revlint - review linter for a hierarchical task database",
		Version: version.String(),
		Long: `revlint sweeps projects and tasks for review problems (empty projects,
missing next actions, overdue and stale items), marks offenders with a review
tag and note stamps, and applies bulk repairs through the fix pack.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.ConfigCmd())

	// Review
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.QueueCmd())
	rootCmd.AddCommand(cli.FixCmd())
	rootCmd.AddCommand(cli.ClearCmd())
	rootCmd.AddCommand(cli.RunsCmd())

	if err := execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs cmd and turns a panic into an error.
func execute(cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected fault: %v", r)
		}
	}()
	return cmd.Execute()
}
