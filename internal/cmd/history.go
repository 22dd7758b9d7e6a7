package cmd

import (
	"fmt"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <campaign-id>",
	Short: "Save a campaign's current sequences to the local history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		message, _ := cmd.Flags().GetString("message")

		a, err := newApp()
		if err != nil {
			return err
		}

		v, err := a.Snapshot(commandContext(cmd), campaignID, message)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved campaign %d as version %s (%d sequence(s))\n",
			campaignID, v.ShortID(), v.Sequences)
		return nil
	},
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <campaign-id>",
	Short: "List the stored versions of a campaign",
	Long: `List the stored versions of a campaign, newest first. Versions are
written by "snapshot" and automatically before every apply and revert.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		versions, err := a.History(campaignID)
		if err != nil {
			return err
		}

		report.PrintVersions(campaignID, versions, outputConfig(cmd))
		return nil
	},
}

// revertCmd represents the revert command
var revertCmd = &cobra.Command{
	Use:   "revert <campaign-id>",
	Short: "Restore a campaign from the local history",
	Long: `Write a stored version of a campaign back to the platform. Without
--version the newest stored version is used, which undoes the last apply or
revert. The current state is saved first, so a revert can be reverted too.

Versions may be given in full or by the short form shown by "history".

Examples:
  campctl revert 200
  campctl revert 200 --version 3f9a1c2e`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		version, _ := cmd.Flags().GetString("version")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp()
		if err != nil {
			return err
		}

		ctx := commandContext(cmd)
		req := app.RevertRequest{CampaignID: campaignID, Version: version, DryRun: true}
		plan, err := a.Revert(ctx, req)
		if err != nil {
			return err
		}

		outputCfg := outputConfig(cmd)
		fmt.Fprintf(cmd.OutOrStdout(), "Restoring version %s", plan.Restored.ShortID())
		if plan.Restored.Message != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", plan.Restored.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		report.PrintPlan(campaignID, plan.Inputs, outputCfg)

		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run: nothing was written")
			return nil
		}

		if !yes {
			ok, err := askConfirm(fmt.Sprintf("Overwrite campaign %d with version %s?", campaignID, plan.Restored.ShortID()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		// pin the version so a concurrent snapshot cannot change the target
		req.Version = plan.Restored.ID
		req.DryRun = false
		result, err := a.Revert(ctx, req)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		if result.Backup != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved previous state as version %s\n", result.Backup.ShortID())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Restored campaign %d to version %s\n",
			green("✔"), campaignID, result.Restored.ShortID())
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringP("message", "m", "", "Note stored with the version")

	revertCmd.Flags().String("version", "", "Version to restore (default newest)")
	revertCmd.Flags().Bool("dry-run", false, "Show what would be restored without writing")
	revertCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(revertCmd)
}
