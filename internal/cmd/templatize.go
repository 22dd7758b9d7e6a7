package cmd

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/campctl/internal/app"
	campIO "github.com/chriscorrea/campctl/internal/io"
	"github.com/chriscorrea/campctl/internal/templatize"

	"github.com/spf13/cobra"
)

// templatizeCmd represents the templatize command
var templatizeCmd = &cobra.Command{
	Use:   "templatize [file]",
	Short: "Specialize a template for one company",
	Long: `Specialize a template for one company.

Every "name" not already part of a placeholder becomes %sender-name%, and
every literal "Company" and "Title" is replaced with the --company and
--title values. Matching is case-sensitive for company and title. The
rewritten text is printed to stdout.

Examples:
  campctl templatize --company Acme --title CTO step1.txt
  cat step1.txt | campctl templatize --company "Acme Corp"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company, err := cmd.Flags().GetString("company")
		if err != nil {
			return fmt.Errorf("failed to get company flag: %w", err)
		}
		title, err := cmd.Flags().GetString("title")
		if err != nil {
			return fmt.Errorf("failed to get title flag: %w", err)
		}

		company = strings.TrimSpace(company)
		if company == "" {
			return app.ErrMissingCompany
		}

		sources, err := campIO.ReadSources(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		rewriter := templatize.Rewriter{Company: company, Title: strings.TrimSpace(title)}
		for _, src := range sources {
			fmt.Fprint(cmd.OutOrStdout(), rewriter.Rewrite(src.Text))
		}
		return nil
	},
}

func init() {
	templatizeCmd.Flags().String("company", "", "Company name substituted for \"Company\" (required)")
	templatizeCmd.Flags().String("title", "", "Job title substituted for \"Title\"")
	rootCmd.AddCommand(templatizeCmd)
}
