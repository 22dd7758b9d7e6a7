package cmd

import (
	"fmt"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/campaign"
	campIO "github.com/chriscorrea/campctl/internal/io"
	"github.com/chriscorrea/campctl/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <campaign-id> [file]",
	Short: "Replace one email body of a campaign with edited text",
	Long: `Replace the body of one sequence step, or one of its variants, with
edited plain text. Use --show to print the current body as text, edit it,
then pass the file back (or pipe it on stdin).

The edited text is validated and any problem is shown as a warning. Text
that only differs in surrounding whitespace is not written. Otherwise the
campaign is saved to the local history before the write.

Examples:
  campctl edit 200 --seq 1 --variant B --show > step1b.txt
  campctl edit 200 --seq 1 --variant B step1b.txt
  cat step2.txt | campctl edit 200 --seq 2 --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := parseCampaignID(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		seqNumber, _ := flags.GetInt("seq")
		variant, _ := flags.GetString("variant")
		show, _ := flags.GetBool("show")
		dryRun, _ := flags.GetBool("dry-run")
		yes, _ := flags.GetBool("yes")

		if seqNumber <= 0 {
			return fmt.Errorf("--seq must be a positive step number")
		}
		target := campaign.Target{SeqNumber: seqNumber, VariantLabel: variant}

		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		if show {
			text, err := a.BodyText(ctx, campaignID, target)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}

		sources, err := campIO.ReadSources(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		source := sources[0]

		req := app.EditRequest{CampaignID: campaignID, Target: target, Text: source.Text, DryRun: true}
		plan, err := a.EditSequence(ctx, req)
		if err != nil {
			return err
		}

		outputCfg := outputConfig(cmd)
		if !plan.Plan.Result.OK {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s the edited text has a template problem\n", yellow("Warning:"))
			report.PrintResult(source.Name, plan.Plan.Result, outputCfg)
		}

		if !plan.Plan.Changed {
			fmt.Fprintf(cmd.OutOrStdout(), "No changes to %s of campaign %d\n", target, campaignID)
			return nil
		}

		report.PrintPlan(campaignID, plan.Plan.Inputs, outputCfg)

		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run: nothing was written")
			return nil
		}

		if !yes {
			ok, err := askConfirm(fmt.Sprintf("Write the edited %s to campaign %d?", target, campaignID))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		req.DryRun = false
		result, err := a.EditSequence(ctx, req)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		if result.Backup != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved previous state as version %s\n", result.Backup.ShortID())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s of campaign %d\n", green("✔"), target, campaignID)
		return nil
	},
}

func init() {
	editCmd.Flags().Int("seq", 0, "Sequence step number to edit")
	editCmd.Flags().String("variant", "", "Variant label to edit (default the step's own body)")
	editCmd.Flags().Bool("show", false, "Print the current body as text and exit")
	editCmd.Flags().Bool("dry-run", false, "Show the plan without writing")
	editCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	if err := editCmd.MarkFlagRequired("seq"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(editCmd)
}
