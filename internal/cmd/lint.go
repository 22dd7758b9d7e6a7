package cmd

import (
	"fmt"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/report"

	"github.com/spf13/cobra"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint <campaign-id>",
	Short: "Validate every template in a live campaign",
	Long: `Validate every subject and email body in a live campaign, including
A/B variants. Bodies are converted from HTML to text before checking, so
positions match what you edit. Exits with status 2 when any template is
invalid.

Examples:
  campctl lint 412345
  campctl lint 412345 --seq 1,3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		seqNumbers, err := cmd.Flags().GetIntSlice("seq")
		if err != nil {
			return fmt.Errorf("failed to get seq flag: %w", err)
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		findings, err := a.Lint(commandContext(cmd), campaignID, seqNumbers)
		if err != nil {
			return err
		}

		report.PrintFindings(campaignID, findings, outputConfig(cmd))
		if len(findings) > 0 {
			return app.WithExitCode(app.ExitInvalidTemplate, nil)
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().IntSlice("seq", nil, "Only lint these sequence numbers")
	rootCmd.AddCommand(lintCmd)
}
