package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestDescribeCommand(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		setup         func()
		expectError   bool
		contains      []string
		notContains   []string
		errorContains string
	}{
		{
			name: "canonical key",
			key:  "platform.timeout",
			contains: []string{
				"Configuration Key: platform.timeout",
				"Type: int",
				"Default: 30",
				"Current Value: 30",
				"Validation: Custom validation rules apply",
				"Aliases: [timeout]",
			},
			notContains: []string{"Alias: "},
		},
		{
			name: "alias resolves to canonical key",
			key:  "template",
			contains: []string{
				"Configuration Key: template.campaign_id",
				"Alias: template",
				"Type: int64",
			},
		},
		{
			name: "token is masked and has no default line",
			key:  "token",
			setup: func() {
				state.manager.Viper().Set("platform.api_token", "sl-abcdefgh")
			},
			contains: []string{
				"Configuration Key: platform.api_token",
				"Current Value: sl-a****",
				"Aliases: [api-token]",
			},
			notContains: []string{"sl-abcdefgh", "Default:"},
		},
		{
			name:          "unknown key",
			key:           "temperature",
			expectError:   true,
			errorContains: "invalid config key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestManager(t)
			if tt.setup != nil {
				tt.setup()
			}

			cmd := &cobra.Command{}
			var stdout bytes.Buffer
			cmd.SetOut(&stdout)

			err := describeConfigCmd.RunE(cmd, []string{tt.key})
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain %q, got %q", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			output := stdout.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("Expected output to contain %q, got:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(output, unwanted) {
					t.Errorf("Expected output not to contain %q, got:\n%s", unwanted, output)
				}
			}
		})
	}
}
