package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/campaign"
	"github.com/chriscorrea/campctl/internal/config"
	"github.com/chriscorrea/campctl/internal/smartlead"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform is an in-memory campaign platform
type fakePlatform struct {
	campaigns []campaign.Campaign
	names     map[int64]string
	sequences map[int64][]campaign.Sequence
	saves     map[int64]int
	followUp  map[int64]float64
	nextID    int64
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		names:     map[int64]string{},
		sequences: map[int64][]campaign.Sequence{},
		saves:     map[int64]int{},
		followUp:  map[int64]float64{},
		nextID:    5000,
	}
}

func (f *fakePlatform) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakePlatform) GetCampaignSequences(ctx context.Context, campaignID int64) ([]campaign.Sequence, error) {
	return f.sequences[campaignID], nil
}

func (f *fakePlatform) GetSequencesGraphQL(ctx context.Context, campaignID int64) (string, []campaign.Sequence, error) {
	name, ok := f.names[campaignID]
	if !ok {
		return "", nil, fmt.Errorf("campaign %d not found", campaignID)
	}
	return name, f.sequences[campaignID], nil
}

// SaveSequences replaces the campaign's steps with the written inputs
func (f *fakePlatform) SaveSequences(ctx context.Context, campaignID int64, inputs []campaign.SequenceInput) (*smartlead.SaveResponse, error) {
	seqs := make([]campaign.Sequence, 0, len(inputs))
	for _, in := range inputs {
		id := f.nextID
		if in.ID != nil {
			id = *in.ID
		} else {
			f.nextID++
		}
		seq := campaign.Sequence{
			ID:           id,
			SeqNumber:    in.SeqNumber,
			Subject:      in.Subject,
			EmailBody:    in.EmailBody,
			DelayDetails: &campaign.DelayDetails{DelayInDays: in.DelayDetails.DelayInDays},
		}
		for _, v := range in.Variants {
			seq.SeqVariants = append(seq.SeqVariants, campaign.Variant{
				Label:     v.Label,
				Subject:   v.Subject,
				EmailBody: v.EmailBody,
			})
		}
		seqs = append(seqs, seq)
	}
	f.sequences[campaignID] = seqs
	f.saves[campaignID]++
	return &smartlead.SaveResponse{OK: true}, nil
}

func (f *fakePlatform) UpdateFollowUpPercentage(ctx context.Context, campaignID int64, percentage float64) error {
	f.followUp[campaignID] = percentage
	return nil
}

func strPtr(s string) *string { return &s }

// setupCLI points the CLI at a fresh config file and a fake platform
func setupCLI(t *testing.T) (*fakePlatform, string) {
	t.Helper()

	t.Setenv(config.TokenEnvVar, "")
	t.Setenv("CAMPCTL_SNAPSHOT_DIR", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	fake := newFakePlatform()

	originalState := state
	state = &rootCmdState{
		newPlatform: func(cfg *config.Config, logger *slog.Logger) (app.Platform, error) {
			return fake, nil
		},
	}
	t.Cleanup(func() { state = originalState })

	return fake, configPath
}

// resetFlags restores every flag in the tree to its default between runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command and returns what it wrote to stdout
func runCLI(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", configPath, "--no-color"}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestParseCampaignID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"412345", 412345, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseCampaignID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	_, configPath := setupCLI(t)

	out, err := runCLI(t, configPath, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "campctl version "+version+"\n", out)
}

func TestNewAppRequiresToken(t *testing.T) {
	t.Setenv(config.TokenEnvVar, "")

	cfg := config.NewDefaultFromEmbedded()
	_, err := newSmartleadPlatform(cfg, nil)
	require.ErrorIs(t, err, smartlead.ErrMissingToken)
	assert.Contains(t, err.Error(), config.TokenEnvVar)

	cfg.Platform.APIToken = "sl-test"
	platform, err := newSmartleadPlatform(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, platform)
}

func TestTokenFlagOverridesConfig(t *testing.T) {
	_, configPath := setupCLI(t)

	_, err := runCLI(t, configPath, "", "--token", "sl-from-flag", "config")
	require.NoError(t, err)
	assert.Equal(t, "sl-from-flag", state.manager.Config().Platform.APIToken)
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", 30, "")
	require.NoError(t, flags.Parse([]string{"--timeout", "75"}))

	v := config.NewManager().Viper()
	require.NoError(t, bindFlags(v, flags, map[string]string{"timeout": "platform.timeout"}))
	assert.Equal(t, 75, v.GetInt("platform.timeout"))

	err := bindFlags(v, flags, map[string]string{"missing": "platform.base_url"})
	assert.ErrorContains(t, err, "flag missing is not defined")
}
