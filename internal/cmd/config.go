package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage campctl configuration",
	Long: `Manage campctl configuration settings. This command provides subcommands
to view and modify configuration values.

Examples:
  campctl config                      # Show current configuration status
  campctl config set key=value        # Set a configuration value

      campctl config set token=<your api token>
      campctl config set platform.timeout=60
      campctl config set template=412345
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := state.manager.Config()

		fmt.Fprintln(cmd.OutOrStdout(), "Configuration loaded successfully")

		if state.manager.Viper().ConfigFileUsed() != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", state.manager.Viper().ConfigFileUsed())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", cfg.Platform.BaseURL)
		if cfg.Platform.APIToken == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "API token: <not set>")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "API token: set")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "History: %s\n", cfg.Snapshots.Dir)
		if cfg.Template.CampaignID > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Default template: %d\n", cfg.Template.CampaignID)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
