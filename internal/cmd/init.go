package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chriscorrea/campctl/internal/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize campctl config through an interactive process",
	Long: `Initialize your campctl configuration:
• Store the platform API token
• Point at the platform API
• Choose where campaign history is kept
• Set a default template campaign

Your configuration will be saved to ~/.campctl/config.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

// runInit asks the setup questions and saves the answers
func runInit(cmd *cobra.Command) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", cyan("📬 Welcome to campctl"))
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s\n", "Let's get you set up–this will only take a minute!")

	cfg := state.manager.Config()
	viper := state.manager.Viper()

	// token: keep the current one when left blank
	var token string
	tokenPrompt := &survey.Password{
		Message: fmt.Sprintf("%s Platform API token (blank keeps the current one):", cyan("🔑")),
		Help:    fmt.Sprintf("Stored in the config file; %s overrides it when set", config.TokenEnvVar),
	}
	if err := askOne(tokenPrompt, &token); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	if token = strings.TrimSpace(token); token != "" {
		viper.Set("platform.api_token", token)
	}

	schema := config.DefaultConfigSchema()

	var baseURL string
	urlPrompt := &survey.Input{
		Message: fmt.Sprintf("%s Platform API base URL:", cyan("🔗")),
		Default: cfg.Platform.BaseURL,
	}
	if err := askOne(urlPrompt, &baseURL, survey.WithValidator(func(ans interface{}) error {
		return schema.ValidateValue("platform.base_url", ans)
	})); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	viper.Set("platform.base_url", strings.TrimSpace(baseURL))

	var snapshotDir string
	dirPrompt := &survey.Input{
		Message: fmt.Sprintf("%s Directory for campaign history:", cyan("🗂")),
		Default: cfg.Snapshots.Dir,
		Help:    "Every apply and revert saves the previous campaign state here",
	}
	if err := askOne(dirPrompt, &snapshotDir); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	viper.Set("snapshots.dir", strings.TrimSpace(snapshotDir))

	var templateID string
	defaultTemplate := ""
	if cfg.Template.CampaignID > 0 {
		defaultTemplate = strconv.FormatInt(cfg.Template.CampaignID, 10)
	}
	templatePrompt := &survey.Input{
		Message: fmt.Sprintf("%s Default template campaign ID (blank for none):", cyan("📄")),
		Default: defaultTemplate,
	}
	if err := askOne(templatePrompt, &templateID, survey.WithValidator(validateOptionalID)); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	if templateID = strings.TrimSpace(templateID); templateID != "" {
		id, _ := strconv.ParseInt(templateID, 10, 64)
		viper.Set("template.campaign_id", id)
	}

	if err := state.manager.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s All set! Your configuration has been saved to %s\n",
		green("🎉"), magenta(viper.ConfigFileUsed()))
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s Try: %s\n",
		cyan("💡"), magenta("campctl campaigns"))
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s For more options, run: %s\n\n",
		cyan("📖"), magenta("campctl --help"))

	return nil
}

// validateOptionalID accepts an empty answer or a positive integer
func validateOptionalID(ans interface{}) error {
	s, ok := ans.(string)
	if !ok {
		return errors.New("expected text input")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if id, err := strconv.ParseInt(s, 10, 64); err != nil || id <= 0 {
		return fmt.Errorf("%q is not a campaign ID", s)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
