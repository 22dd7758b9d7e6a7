// Package report renders validation results, lint findings, plans and
// version history for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/campctl/internal/campaign"
	"github.com/chriscorrea/campctl/internal/snapshot"
	"github.com/chriscorrea/campctl/internal/spintax"

	"github.com/fatih/color"
)

// OutputConfig contains parameters for terminal output formatting
type OutputConfig struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	HeaderColor  *color.Color
	ErrorColor   *color.Color
	OKColor      *color.Color
	EnableColors bool
}

// DefaultOutputConfig returns a default configuration for terminal output
func DefaultOutputConfig(writer io.Writer) *OutputConfig {
	return &OutputConfig{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		HeaderColor:  color.New(color.FgYellow, color.Bold),
		ErrorColor:   color.New(color.FgRed, color.Bold),
		OKColor:      color.New(color.FgGreen),
		EnableColors: true,
	}
}

// sprinters returns the color funcs, or plain fmt.Sprint when colors are off
func (o *OutputConfig) sprinters() (key, value, header, bad, ok func(a ...interface{}) string) {
	if !o.EnableColors {
		return fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint
	}
	return o.KeyColor.SprintFunc(), o.ValueColor.SprintFunc(), o.HeaderColor.SprintFunc(),
		o.ErrorColor.SprintFunc(), o.OKColor.SprintFunc()
}

func orDefault(outputCfg *OutputConfig) *OutputConfig {
	if outputCfg == nil {
		return DefaultOutputConfig(os.Stdout)
	}
	return outputCfg
}

// NamedResult pairs a validation result with the input it came from
type NamedResult struct {
	Name   string
	Result spintax.Result
}

// MarshalJSON flattens the name into the result object
func (n NamedResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
		spintax.JSONResult
	}{Name: n.Name, JSONResult: n.Result.JSON()})
}

// WriteJSON writes results as an indented JSON array
func WriteJSON(w io.Writer, results []NamedResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// PrintResult prints one validation result; failures include the caret context
func PrintResult(name string, result spintax.Result, outputCfg *OutputConfig) {
	outputCfg = orDefault(outputCfg)
	keySprint, _, _, badSprint, okSprint := outputCfg.sprinters()

	if result.OK {
		fmt.Fprintf(outputCfg.Writer, "%s: %s\n", keySprint(name), okSprint("OK"))
		return
	}

	fmt.Fprintf(outputCfg.Writer, "%s: %s at position %d\n",
		keySprint(name), badSprint(result.Kind.Message()), result.Position)
	printContext(outputCfg.Writer, result.Context)
}

// printContext indents the two-line snippet under its heading
func printContext(w io.Writer, context string) {
	if context == "" {
		return
	}
	for _, line := range strings.Split(context, "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

// PrintFindings prints lint findings for a campaign, or a clean bill of health
func PrintFindings(campaignID int64, findings []campaign.Finding, outputCfg *OutputConfig) {
	outputCfg = orDefault(outputCfg)
	keySprint, _, headerSprint, badSprint, okSprint := outputCfg.sprinters()

	if len(findings) == 0 {
		fmt.Fprintf(outputCfg.Writer, "%s campaign %d: %s\n", headerSprint("▶"), campaignID, okSprint("all templates valid"))
		return
	}

	fmt.Fprintf(outputCfg.Writer, "%s campaign %d: %s\n", headerSprint("▶"), campaignID,
		badSprint(fmt.Sprintf("%d invalid template(s)", len(findings))))
	for _, f := range findings {
		fmt.Fprintf(outputCfg.Writer, "%s: %s at position %d\n",
			keySprint(f.Location()), badSprint(f.Result.Kind.Message()), f.Result.Position)
		printContext(outputCfg.Writer, f.Result.Context)
	}
}

// PrintPlan shows the sequence writes a template application would make
func PrintPlan(campaignID int64, inputs []campaign.SequenceInput, outputCfg *OutputConfig) {
	outputCfg = orDefault(outputCfg)
	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)
	_, _, headerSprint, _, _ := outputCfg.sprinters()

	fmt.Fprintf(w, "%s\n", headerSprint(fmt.Sprintf("▶ Planned writes for campaign %d", campaignID)))
	for _, input := range inputs {
		action := "create"
		if input.ID != nil {
			action = fmt.Sprintf("update #%d", *input.ID)
		}
		printRow(w, outputCfg, "Sequence", fmt.Sprintf("%d (%s)", input.SeqNumber, action),
			"Variants", fmt.Sprintf("%d", len(input.Variants)))
		printRow(w, outputCfg, "Subject", truncate(input.Subject, 50), "", "")
		printRow(w, outputCfg, "Body", preview(input.EmailBody), "", "")
		for _, v := range input.Variants {
			printRow(w, outputCfg, "Variant "+v.Label, preview(v.EmailBody), "", "")
		}
	}
	fmt.Fprintf(w, "\n")
	w.Flush()
}

// PrintVersions lists stored snapshots, newest first
func PrintVersions(campaignID int64, versions []snapshot.Version, outputCfg *OutputConfig) {
	outputCfg = orDefault(outputCfg)
	if len(versions) == 0 {
		fmt.Fprintf(outputCfg.Writer, "No history for campaign %d\n", campaignID)
		return
	}

	keySprint, valueSprint, headerSprint, _, _ := outputCfg.sprinters()
	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerSprint("Version"), headerSprint("Saved"), headerSprint("Steps"), headerSprint("Message"))
	for _, v := range versions {
		saved := "-"
		if !v.CreatedAt.IsZero() {
			saved = v.CreatedAt.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			keySprint(v.ShortID()), valueSprint(saved), v.Sequences, v.Message)
	}
	w.Flush()
}

// PrintCampaigns lists campaigns as an id/status/name table
func PrintCampaigns(campaigns []campaign.Campaign, outputCfg *OutputConfig) {
	outputCfg = orDefault(outputCfg)
	keySprint, valueSprint, headerSprint, _, _ := outputCfg.sprinters()
	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\n", headerSprint("ID"), headerSprint("Status"), headerSprint("Name"))
	for _, c := range campaigns {
		fmt.Fprintf(w, "%s\t%s\t%s\n", keySprint(c.ID), valueSprint(c.Status), c.Name)
	}
	w.Flush()
}

// printRow prints a multi-column row for one or two key-value pairs
// and handles color formatting and alignment via tabwriter
func printRow(w io.Writer, outputCfg *OutputConfig, key1, value1, key2, value2 string) {
	keySprint, valueSprint, _, _, _ := outputCfg.sprinters()

	if key2 != "" {
		fmt.Fprintf(w, "%s:\t%s\t%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
			keySprint(key2),
			valueSprint(value2),
		)
	} else {
		fmt.Fprintf(w, "%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
		)
	}
}

// preview renders an HTML body as a single truncated line of text
func preview(body *string) string {
	if body == nil {
		return "<empty>"
	}
	text, err := campaign.HTMLToText(*body)
	if err != nil {
		text = *body
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "<empty>"
	}
	return truncate(text, 60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
