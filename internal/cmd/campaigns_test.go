package cmd

import (
	"testing"

	"github.com/chriscorrea/campctl/internal/app"
	"github.com/chriscorrea/campctl/internal/campaign"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignsCommand(t *testing.T) {
	fake, configPath := setupCLI(t)
	fake.campaigns = []campaign.Campaign{
		{ID: 100, Name: "Template: SaaS founders", Status: "PAUSED"},
		{ID: 200, Name: "Acme outbound", Status: "ACTIVE"},
	}

	out, err := runCLI(t, configPath, "", "campaigns")
	require.NoError(t, err)
	assert.Contains(t, out, "Template: SaaS founders")
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, out, "200")
}

func TestShowCommand(t *testing.T) {
	fake, configPath := setupCLI(t)
	fake.names[200] = "Acme outbound"
	fake.sequences[200] = []campaign.Sequence{
		{ID: 1, SeqNumber: 1, Subject: "Intro", SequenceVariants: []campaign.Variant{{Label: "A"}, {Label: "B"}}},
		{ID: 2, SeqNumber: 2, Subject: "Bump", DelayDetails: &campaign.DelayDetails{DelayInDays: 4}},
	}

	out, err := runCLI(t, configPath, "", "show", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "▶ Acme outbound (200)")
	assert.Regexp(t, `1\s+0d\s+A,B\s+Intro`, out)
	assert.Regexp(t, `2\s+4d\s+-\s+Bump`, out)

	_, err = runCLI(t, configPath, "", "show", "404")
	assert.Error(t, err)
}

func TestFollowUpCommand(t *testing.T) {
	fake, configPath := setupCLI(t)

	out, err := runCLI(t, configPath, "", "follow-up", "200", "--percentage", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "follow-up percentage set to 60")
	assert.Equal(t, 60.0, fake.followUp[200])

	_, err = runCLI(t, configPath, "", "follow-up", "200", "--percentage", "150")
	assert.Error(t, err)
	assert.Equal(t, 60.0, fake.followUp[200])
}

func TestLintCommand(t *testing.T) {
	fake, configPath := setupCLI(t)
	fake.sequences[300] = []campaign.Sequence{
		{
			ID:        1,
			SeqNumber: 1,
			Subject:   "Hi {{first_name}}",
			EmailBody: strPtr("<div>{Hello|Hi</div>"),
			SequenceVariants: []campaign.Variant{
				{Label: "B", EmailBody: strPtr("<div>{{#if tier}}gold</div>")},
			},
		},
		{ID: 2, SeqNumber: 2, EmailBody: strPtr("<div>Still there?</div>")},
	}

	out, err := runCLI(t, configPath, "", "lint", "300")
	assert.Equal(t, app.ExitInvalidTemplate, app.ExitCode(err))
	assert.Contains(t, out, "2 invalid template(s)")
	assert.Contains(t, out, "sequence 1 email_body: Unclosed opening brace")
	assert.Contains(t, out, "sequence 1 variant B email_body: IF without closing ENDIF")

	out, err = runCLI(t, configPath, "", "lint", "300", "--seq", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "all templates valid")
}
