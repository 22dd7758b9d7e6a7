package cmd

import (
	"fmt"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/report"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a template campaign to a target campaign",
	Long: `Copy the sequences of a template campaign onto a target campaign,
specialized for one company. Existing target steps are updated in place and
missing ones are created.

The plan and any template warnings are shown first. The target's current
sequences are saved to the local history before anything is written, so an
application can be undone with "campctl revert".

When --template is omitted, template.campaign_id from the config is used.

Examples:
  campctl apply --template 100 --target 200 --company Acme --dry-run
  campctl apply --target 200 --company Acme --title CTO --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		templateID, _ := flags.GetInt64("template")
		targetID, _ := flags.GetInt64("target")
		company, _ := flags.GetString("company")
		title, _ := flags.GetString("title")
		dryRun, _ := flags.GetBool("dry-run")
		yes, _ := flags.GetBool("yes")

		includeSubjects := state.manager != nil && state.manager.Config().Template.IncludeSubjects
		if flags.Changed("include-subjects") {
			includeSubjects, _ = flags.GetBool("include-subjects")
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		req := app.ApplyRequest{
			TemplateID:      templateID,
			TargetID:        targetID,
			Company:         company,
			Title:           title,
			IncludeSubjects: includeSubjects,
			DryRun:          true,
		}

		ctx := commandContext(cmd)
		plan, err := a.ApplyTemplate(ctx, req)
		if err != nil {
			return err
		}

		outputCfg := outputConfig(cmd)
		report.PrintPlan(targetID, plan.Inputs, outputCfg)
		report.PrintFindings(targetID, plan.Findings, outputCfg)

		if dryRun {
			fmt.Fprintln(cmd.OutOrStdout(), "Dry run: nothing was written")
			return nil
		}

		if !yes {
			ok, err := askConfirm(fmt.Sprintf("Write %d sequence(s) to campaign %d?", len(plan.Inputs), targetID))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		req.DryRun = false
		result, err := a.ApplyTemplate(ctx, req)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		if result.Backup != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved previous state as version %s\n", result.Backup.ShortID())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Applied %d sequence(s) to campaign %d\n",
			green("✔"), len(result.Inputs), targetID)
		return nil
	},
}

func init() {
	applyCmd.Flags().Int64("template", 0, "Template campaign ID (default from config)")
	applyCmd.Flags().Int64("target", 0, "Target campaign ID")
	applyCmd.Flags().String("company", "", "Company name for the target")
	applyCmd.Flags().String("title", "", "Job title for the target")
	applyCmd.Flags().Bool("include-subjects", false, "Also rewrite subject lines")
	applyCmd.Flags().Bool("dry-run", false, "Show the plan without writing")
	applyCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	for _, name := range []string{"target", "company"} {
		if err := applyCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(applyCmd)
}
