package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/revlint/internal/wire"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show run history and the changes each run made",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs (* marks dry runs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.RunAdapter().List(commandContext(), limit)
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a run and its changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.RunAdapter().Show(commandContext(), args[0])
	},
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete recorded changes older than --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		return wire.RunAdapter().Prune(commandContext(), days)
	},
}

// RunsCmd returns the runs command
func RunsCmd() *cobra.Command {
	runsListCmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to list")
	runsPruneCmd.Flags().Int("days", 90, "Keep changes newer than this many days")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsPruneCmd)
	return runsCmd
}
