package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/campctl/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// campaignsCmd represents the campaigns command
var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List campaigns visible to the configured token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		campaigns, err := a.Campaigns(commandContext(cmd))
		if err != nil {
			return err
		}

		report.PrintCampaigns(campaigns, outputConfig(cmd))
		return nil
	},
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <campaign-id>",
	Short: "Show a campaign's sequence outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		name, seqs, err := a.Outline(commandContext(cmd), campaignID)
		if err != nil {
			return err
		}

		outputCfg := outputConfig(cmd)
		header := fmt.Sprintf("▶ %s (%d)", name, campaignID)
		if outputCfg.EnableColors {
			header = outputCfg.HeaderColor.Sprint(header)
		}
		fmt.Fprintln(cmd.OutOrStdout(), header)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Step\tDelay\tVariants\tSubject\n")
		for _, seq := range seqs {
			variants := "-"
			if vs := seq.Variants(); len(vs) > 0 {
				labels := make([]string, 0, len(vs))
				for _, v := range vs {
					labels = append(labels, v.Label)
				}
				variants = strings.Join(labels, ",")
			}
			fmt.Fprintf(w, "%d\t%dd\t%s\t%s\n", seq.SeqNumber, seq.DelayInDays(), variants, seq.Subject)
		}
		return w.Flush()
	},
}

// followUpCmd represents the follow-up command
var followUpCmd = &cobra.Command{
	Use:   "follow-up <campaign-id>",
	Short: "Set the share of leads that receive follow-up steps",
	Long: `Set the share of leads that receive follow-up steps, from 0 to 100.

Examples:
  campctl follow-up 200 --percentage 60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}
		percentage, err := cmd.Flags().GetFloat64("percentage")
		if err != nil {
			return fmt.Errorf("failed to get percentage flag: %w", err)
		}
		if percentage < 0 || percentage > 100 {
			return fmt.Errorf("percentage must be between 0 and 100, got %v", percentage)
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.SetFollowUpPercentage(commandContext(cmd), campaignID, percentage); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Campaign %d follow-up percentage set to %v\n", green("✔"), campaignID, percentage)
		return nil
	},
}

func init() {
	followUpCmd.Flags().Float64("percentage", 0, "Follow-up percentage (0-100)")
	if err := followUpCmd.MarkFlagRequired("percentage"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(followUpCmd)
}
