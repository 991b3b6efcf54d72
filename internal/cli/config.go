package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/revlint/internal/wire"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change lint preferences",
	Long: `Lint preferences live in the database and are read at the start of
every run. Options marked * differ from their default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ConfigAdapter().Show(commandContext())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every preference",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ConfigAdapter().Show(commandContext())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ConfigAdapter().Set(commandContext(), args[0], args[1])
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset a preference, or all preferences, to the default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return wire.ConfigAdapter().Reset(commandContext(), key)
	},
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	return configCmd
}
