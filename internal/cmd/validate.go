package cmd

import (
	"fmt"

	"github.com/chriscorrea/campctl/internal/app"
	campIO "github.com/chriscorrea/campctl/internal/io"
	"github.com/chriscorrea/campctl/internal/report"
	"github.com/chriscorrea/campctl/internal/spintax"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check spintax templates for structural errors",
	Long: `Check spintax templates for structural errors.

Each input is checked for IF/ELSE/ENDIF nesting, IF condition syntax and
brace balance, in that order; the first problem found is reported with its
character position and surrounding context.

An IF condition is either a bare name, {{#if vip}}, or an equality test
against a double-quoted value. Existing templates write the operator
quoted, {{#if tier '==' "gold"}}; the bare form {{#if tier == "gold"}} is
accepted too. Spaces around the operator are required.

With no files, the template is read from stdin. Use "-" to read stdin
alongside files. The command exits with status 2 when any template is
invalid.

Examples:
  campctl validate step1.txt step2.txt
  pbpaste | campctl validate
  campctl validate --json templates/*.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, err := cmd.Flags().GetBool("json")
		if err != nil {
			return fmt.Errorf("failed to get json flag: %w", err)
		}

		sources, err := campIO.ReadSources(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		window := spintax.DefaultWindow
		if state.manager != nil {
			window = state.manager.Config().Output.ContextWindow
		}

		results, invalid := validateSources(sources, window)
		if state.logger != nil {
			state.logger.Debug("Validated templates", "inputs", len(results), "invalid", invalid)
		}

		if jsonOut {
			if err := report.WriteJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
		} else {
			outputCfg := outputConfig(cmd)
			for _, r := range results {
				report.PrintResult(r.Name, r.Result, outputCfg)
			}
		}

		if invalid > 0 {
			// results are already on stdout; only the status is left to report
			return app.WithExitCode(app.ExitInvalidTemplate, nil)
		}
		return nil
	},
}

// validateSources validates each source and counts the failures
func validateSources(sources []campIO.Source, window int) ([]report.NamedResult, int) {
	results := make([]report.NamedResult, 0, len(sources))
	invalid := 0
	for _, src := range sources {
		result := spintax.Validate(src.Text)
		if !result.OK {
			invalid++
			if window > 0 && window != spintax.DefaultWindow {
				result.Context = spintax.ContextSnippet(src.Text, result.Position, window)
			}
		}
		results = append(results, report.NamedResult{Name: src.Name, Result: result})
	}
	return results, invalid
}

func init() {
	validateCmd.Flags().Bool("json", false, "Print results as a JSON array")
	rootCmd.AddCommand(validateCmd)
}
