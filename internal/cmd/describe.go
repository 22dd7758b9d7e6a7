package cmd

import (
	"fmt"
	"sort"

	"github.com/chriscorrea/campctl/internal/config"

	"github.com/spf13/cobra"
)

// describeConfigCmd represents the config describe command
var describeConfigCmd = &cobra.Command{
	Use:   "describe <key>",
	Short: "Show detailed information about a configuration key",
	Long: `Show detailed information about a configuration key including its type,
description, default and current value.

The key can be either a full canonical path or a convenience alias.

Examples:
  campctl config describe timeout
  campctl config describe platform.timeout`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		schema := config.DefaultConfigSchema()

		canonicalKey, err := schema.ResolveKey(key)
		if err != nil {
			return err
		}

		fieldInfo, err := schema.GetFieldInfo(canonicalKey)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration Key: %s\n", canonicalKey)

		// show alias if the input was an alias
		if key != canonicalKey {
			fmt.Fprintf(out, "Alias: %s\n", key)
		}

		fmt.Fprintf(out, "Type: %s\n", fieldInfo.Type.String())
		fmt.Fprintf(out, "Description: %s\n", fieldInfo.Description)
		if !fieldInfo.Sensitive {
			fmt.Fprintf(out, "Default: %v\n", fieldInfo.Default)
		}
		fmt.Fprintf(out, "Current Value: %s\n", displayValue(schema, canonicalKey))

		if fieldInfo.Validation != nil {
			fmt.Fprintf(out, "\nValidation: Custom validation rules apply\n")
		}

		var relatedAliases []string
		for alias, canonical := range schema.Aliases {
			if canonical == canonicalKey && alias != key {
				relatedAliases = append(relatedAliases, alias)
			}
		}
		sort.Strings(relatedAliases)

		if len(relatedAliases) > 0 {
			fmt.Fprintf(out, "\nAliases: %v\n", relatedAliases)
		}

		return nil
	},
}

func init() {
	configCmd.AddCommand(describeConfigCmd)
}
