package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/config"
	"github.com/chriscorrea/campctl/internal/logger"
	"github.com/chriscorrea/campctl/internal/report"
	"github.com/chriscorrea/campctl/internal/smartlead"
	"github.com/chriscorrea/campctl/internal/snapshot"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// current version (hardcoded for now, could be replaced with build flags)
const version = "0.1.0"

// platformFactory builds the platform client from the loaded configuration
type platformFactory func(cfg *config.Config, logger *slog.Logger) (app.Platform, error)

// rootCmdState holds the config manager and logger for the command
type rootCmdState struct {
	manager     *config.Manager
	logger      *slog.Logger
	newPlatform platformFactory
}

// state is the global state instance for the root command
var state = &rootCmdState{}

// newSmartleadPlatform is the production platform factory
func newSmartleadPlatform(cfg *config.Config, logger *slog.Logger) (app.Platform, error) {
	client, err := smartlead.NewClient(smartlead.Config{
		BaseURL:    cfg.Platform.BaseURL,
		GraphQLURL: cfg.Platform.GraphQLURL,
		APIToken:   cfg.Platform.APIToken,
		Timeout:    cfg.Platform.TimeoutDuration(),
		MaxRetries: cfg.Platform.MaxRetries,
	}, smartlead.WithLogger(logger))
	if errors.Is(err, smartlead.ErrMissingToken) {
		return nil, fmt.Errorf("%w: set %s or run 'campctl config set token=<token>'", err, config.TokenEnvVar)
	}
	return client, err
}

// newApp wires the platform client and snapshot store for a command
func newApp() (*app.App, error) {
	if state.manager == nil {
		return nil, fmt.Errorf("config manager not initialized")
	}
	cfg := state.manager.Config()

	factory := state.newPlatform
	if factory == nil {
		factory = newSmartleadPlatform
	}
	platform, err := factory(cfg, state.logger)
	if err != nil {
		return nil, err
	}

	return app.NewApp(cfg, state.logger, platform, snapshot.NewStore(cfg.Snapshots.Dir)), nil
}

// outputConfig returns report styling for the command's stdout
func outputConfig(cmd *cobra.Command) *report.OutputConfig {
	outputCfg := report.DefaultOutputConfig(cmd.OutOrStdout())
	outputCfg.EnableColors = !color.NoColor
	if state.manager != nil && !state.manager.Config().Output.Color {
		outputCfg.EnableColors = false
	}
	return outputCfg
}

// parseCampaignID parses a positional campaign ID
func parseCampaignID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid campaign ID %q: must be a positive integer", arg)
	}
	return id, nil
}

// commandContext returns the command's context, falling back to Background
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// bindFlags binds each named flag to its viper key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for flagName, viperKey := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("flag %s is not defined", flagName)
		}
		if err := v.BindPFlag(viperKey, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flagName, err)
		}
	}
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "campctl",
	Version: version,
	Short:   "Operator tools for outbound email campaigns",
	Long: `campctl validates spintax email templates, specializes template campaigns
for a company, applies them to target campaigns and keeps a local version
history so every write can be reverted.`,
	SilenceUsage:  true, // Don't show usage after errors
	SilenceErrors: true, // Execute prints errors itself

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// get the debug flag value and create logger
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return fmt.Errorf("failed to get debug flag: %w", err)
		}
		state.logger = logger.New(debug)

		// instantiate the config manager with logger
		state.manager = config.NewManager().WithLogger(state.logger)

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}

		// if config is not set, use default path
		if configPath == "" {
			configPath, err = config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
		}

		configPath, err = config.ExpandHomePath(configPath)
		if err != nil {
			return fmt.Errorf("failed to expand home path: %w", err)
		}

		// bind all persistent flags to their corresponding Viper keys
		v := state.manager.Viper()

		flagBindings := map[string]string{
			"token":       "platform.api_token",
			"base-url":    "platform.base_url",
			"timeout":     "platform.timeout",
			"max-retries": "platform.max_retries",
			"verbose":     "verbose",
			"debug":       "debug",
		}

		if err := bindFlags(v, cmd.Flags(), flagBindings); err != nil {
			return err
		}

		if err := state.manager.Load(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor || !state.manager.Config().Output.Color {
			color.NoColor = true
		}

		return nil
	},
}

// Execute runs the root command and returns the process exit code.
// It is called by main.main(); errors are printed here.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		var exitErr *app.ExitError
		// an ExitError with no cause has already reported itself
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		}
	}
	return app.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ~/.campctl/config.toml)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable detailed debug logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show extra detail in command output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.PersistentFlags().String("token", "", "Platform API token (overrides "+config.TokenEnvVar+")")
	rootCmd.PersistentFlags().String("base-url", smartlead.DefaultBaseURL, "Platform REST API base URL")
	rootCmd.PersistentFlags().Int("timeout", 30, "Timeout in seconds for platform requests")
	rootCmd.PersistentFlags().Int("max-retries", 2, "Maximum number of retry attempts for failed requests (max: 5)")

	// the environment variable is the documented way to pass the token
	if err := rootCmd.PersistentFlags().MarkHidden("token"); err != nil {
		panic(err)
	}

	// custom usage template will hide lengthly global flags list for subcommands
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	rootCmd.AddCommand(createVersionCommand())
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "campctl version %s\n", version)
		},
	}
}
