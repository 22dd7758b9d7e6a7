package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/campctl/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const notSet = "<not set>"

// configGroups orders the sections of config list by top-level key
var configGroups = []struct {
	prefix string
	title  string
}{
	{"platform.", "Platform"},
	{"template.", "Template"},
	{"snapshots.", "History"},
	{"output.", "Output"},
}

// ConfigDisplayInfo holds information for displaying config item
type ConfigDisplayInfo struct {
	Key         string
	Value       string
	Description string
	Target      string // the canonical path an alias points to
}

// OutputStyle contains color configuration for the list output
type OutputStyle struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	GroupColor   *color.Color
	EnableColors bool
}

// NewOutputStyle creates new output style configuration
func NewOutputStyle(writer io.Writer) *OutputStyle {
	return &OutputStyle{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		GroupColor:   color.New(color.FgGreen, color.Bold),
		EnableColors: !color.NoColor,
	}
}

func (s *OutputStyle) sprinters() (key, value, group func(a ...interface{}) string) {
	if !s.EnableColors {
		return fmt.Sprint, fmt.Sprint, fmt.Sprint
	}
	return s.KeyColor.SprintFunc(), s.ValueColor.SprintFunc(), s.GroupColor.SprintFunc()
}

// listConfigCmd represents the config list cmd
var listConfigCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Long: `List configuration values.

By default, shows the short aliases accepted by "config set". Use
--canonical to see every configuration path instead. The API token is
always masked.

Examples:
  campctl config list              # Show aliases view (default)
  campctl config list --canonical  # Show canonical configuration paths`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := config.DefaultConfigSchema()
		showCanonical, _ := cmd.Flags().GetBool("canonical")

		style := NewOutputStyle(cmd.OutOrStdout())

		var items []ConfigDisplayInfo
		if showCanonical {
			for _, key := range schema.ListCanonicalKeys() {
				fieldInfo, _ := schema.GetFieldInfo(key)
				items = append(items, ConfigDisplayInfo{
					Key:         key,
					Value:       displayValue(schema, key),
					Description: fieldInfo.Description,
					Target:      key,
				})
			}
		} else {
			for _, alias := range schema.ListAliases() {
				canonicalPath := schema.Aliases[alias]
				fieldInfo, err := schema.GetFieldInfo(canonicalPath)
				if err != nil {
					continue
				}
				items = append(items, ConfigDisplayInfo{
					Key:         alias,
					Value:       displayValue(schema, canonicalPath),
					Description: fieldInfo.Description,
					Target:      canonicalPath,
				})
			}
		}

		return printConfigGroups(style, items, !showCanonical)
	},
}

// printConfigGroups prints items under their group headers; descriptions are
// shown in the aliases view only
func printConfigGroups(style *OutputStyle, items []ConfigDisplayInfo, withDescription bool) error {
	keySprint, valueSprint, groupSprint := style.sprinters()
	w := tabwriter.NewWriter(style.Writer, 0, 0, 3, ' ', 0)

	for _, group := range configGroups {
		var rows []ConfigDisplayInfo
		for _, item := range items {
			if strings.HasPrefix(item.Target, group.prefix) {
				rows = append(rows, item)
			}
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s\n", groupSprint("▶ "+group.title))
		for _, row := range rows {
			if withDescription {
				fmt.Fprintf(w, "%s\t%s\t%s\n", keySprint(row.Key), valueSprint(truncateRunes(row.Value, 25)), truncateRunes(row.Description, 50))
			} else {
				fmt.Fprintf(w, "%s\t%s\n", keySprint(row.Key), valueSprint(row.Value))
			}
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

// displayValue renders a config value for display, masking secrets
func displayValue(schema *config.ConfigSchema, canonicalPath string) string {
	value := getConfigValue(canonicalPath)
	if value != notSet && schema.IsSensitive(canonicalPath) {
		return maskSecret(value)
	}
	return truncateRunes(value, 40)
}

// getConfigValue retrieves the current value for a configuration key using Viper
func getConfigValue(canonicalPath string) string {
	value := state.manager.Viper().Get(canonicalPath)

	if value == nil {
		return notSet
	}
	if str, ok := value.(string); ok && str == "" {
		return notSet
	}

	return fmt.Sprintf("%v", value)
}

// maskSecret keeps the first four characters of a secret
func maskSecret(value string) string {
	if value == "" {
		return notSet
	}
	r := []rune(value)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", 4)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	configCmd.AddCommand(listConfigCmd)
	listConfigCmd.Flags().Bool("canonical", false, "Show canonical configuration paths")
}
