package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chriscorrea/campctl/internal/campaign"
	"github.com/chriscorrea/campctl/internal/config"
	"github.com/chriscorrea/campctl/internal/smartlead"
	"github.com/chriscorrea/campctl/internal/snapshot"

	"github.com/hashicorp/go-set/v3"
)

var (
	// ErrSameCampaign is returned when a template would be applied onto itself
	ErrSameCampaign = errors.New("template and target campaign must be different")

	// ErrMissingCompany is returned when no company name is supplied
	ErrMissingCompany = errors.New("company name is required")
)

// Platform is the subset of the campaign platform the app drives
type Platform interface {
	ListCampaigns(ctx context.Context) ([]campaign.Campaign, error)
	GetCampaignSequences(ctx context.Context, campaignID int64) ([]campaign.Sequence, error)
	GetSequencesGraphQL(ctx context.Context, campaignID int64) (string, []campaign.Sequence, error)
	SaveSequences(ctx context.Context, campaignID int64, inputs []campaign.SequenceInput) (*smartlead.SaveResponse, error)
	UpdateFollowUpPercentage(ctx context.Context, campaignID int64, percentage float64) error
}

// App represents the main application and holds its dependencies
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	platform Platform
	store    *snapshot.Store
}

// NewApp creates a new App instance
func NewApp(cfg *config.Config, logger *slog.Logger, platform Platform, store *snapshot.Store) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		platform: platform,
		store:    store,
	}
}

// ApplyRequest describes one template application
type ApplyRequest struct {
	TemplateID      int64
	TargetID        int64
	Company         string
	Title           string
	IncludeSubjects bool
	DryRun          bool
}

// ApplyResult reports what an application planned and did
type ApplyResult struct {
	Inputs   []campaign.SequenceInput
	Findings []campaign.Finding

	// Backup is the snapshot of the target taken before writing; nil on dry runs
	Backup *snapshot.Version
	Saved  bool
}

// validate normalizes the request and rejects unusable ones
func (r *ApplyRequest) validate() error {
	r.Company = strings.TrimSpace(r.Company)
	r.Title = strings.TrimSpace(r.Title)

	if r.TemplateID <= 0 || r.TargetID <= 0 {
		return fmt.Errorf("template and target campaign IDs are required")
	}
	if r.TemplateID == r.TargetID {
		return ErrSameCampaign
	}
	if r.Company == "" {
		return ErrMissingCompany
	}
	return nil
}

// ApplyTemplate copies the template campaign's sequences onto the target,
// specialized for the request's company and title. The target's current
// sequences are snapshotted before anything is written. A zero TemplateID
// falls back to the configured default template.
func (a *App) ApplyTemplate(ctx context.Context, req ApplyRequest) (*ApplyResult, error) {
	if req.TemplateID == 0 && a.cfg != nil {
		req.TemplateID = a.cfg.Template.CampaignID
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	a.logger.Info("Applying template",
		"template_id", req.TemplateID,
		"target_id", req.TargetID,
		"company", req.Company,
		"dry_run", req.DryRun)

	template, err := a.platform.GetCampaignSequences(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to read template campaign %d: %w", req.TemplateID, err)
	}
	if len(template) == 0 {
		return nil, fmt.Errorf("template campaign %d has no sequences", req.TemplateID)
	}

	current, err := a.platform.GetCampaignSequences(ctx, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read target campaign %d: %w", req.TargetID, err)
	}

	result := &ApplyResult{
		Inputs: campaign.PlanTemplateApply(template, current, campaign.PlanOptions{
			Company:         req.Company,
			Title:           req.Title,
			IncludeSubjects: req.IncludeSubjects,
		}),
	}

	// invalid templates are reported, not blocking
	result.Findings, err = campaign.Lint(template, campaign.LintOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to lint template campaign: %w", err)
	}
	if len(result.Findings) > 0 {
		a.logger.Warn("Template campaign has invalid templates", "count", len(result.Findings))
	}

	if req.DryRun {
		return result, nil
	}

	backup, err := a.backup(ctx, req.TargetID, current,
		fmt.Sprintf("Before applying template %d for %s", req.TemplateID, req.Company))
	if err != nil {
		return nil, err
	}
	result.Backup = backup

	if _, err := a.platform.SaveSequences(ctx, req.TargetID, result.Inputs); err != nil {
		return nil, fmt.Errorf("failed to save sequences to campaign %d: %w", req.TargetID, err)
	}
	result.Saved = true

	a.logger.Info("Template applied", "target_id", req.TargetID, "sequences", len(result.Inputs))
	return result, nil
}

// backup stores the given sequences as a new version
func (a *App) backup(ctx context.Context, campaignID int64, seqs []campaign.Sequence, message string) (*snapshot.Version, error) {
	version, err := a.store.Save(ctx, snapshot.FromSequences(campaignID, seqs), message)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot campaign %d: %w", campaignID, err)
	}
	a.logger.Debug("Stored snapshot", "campaign_id", campaignID, "version", version.ID)
	return &version, nil
}

// RevertRequest names the version to restore; an empty Version means the newest
type RevertRequest struct {
	CampaignID int64
	Version    string
	DryRun     bool
}

// RevertResult reports a restore
type RevertResult struct {
	Restored snapshot.Version
	Inputs   []campaign.SequenceInput
	Backup   *snapshot.Version
	Saved    bool
}

// Revert writes a stored version back to the platform. The campaign's
// current state is snapshotted first, so a revert can itself be reverted.
func (a *App) Revert(ctx context.Context, req RevertRequest) (*RevertResult, error) {
	if req.CampaignID <= 0 {
		return nil, fmt.Errorf("campaign ID is required")
	}

	var (
		snap    *snapshot.Snapshot
		version snapshot.Version
		err     error
	)
	if req.Version == "" {
		snap, version, err = a.store.Latest(req.CampaignID)
	} else {
		snap, err = a.store.Load(req.CampaignID, req.Version)
		version = snapshot.Version{ID: req.Version, CampaignID: req.CampaignID}
		if err == nil {
			version.Message = snap.Message
			version.Sequences = len(snap.Sequences)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(snap.Sequences) == 0 {
		return nil, fmt.Errorf("version %s of campaign %d has no sequences", version.ShortID(), req.CampaignID)
	}

	result := &RevertResult{Restored: version, Inputs: snap.Inputs()}
	if req.DryRun {
		return result, nil
	}

	current, err := a.platform.GetCampaignSequences(ctx, req.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign %d: %w", req.CampaignID, err)
	}
	result.Backup, err = a.backup(ctx, req.CampaignID, current,
		fmt.Sprintf("Before revert of campaign %d to %s", req.CampaignID, version.ShortID()))
	if err != nil {
		return nil, err
	}

	if _, err := a.platform.SaveSequences(ctx, req.CampaignID, result.Inputs); err != nil {
		return nil, fmt.Errorf("failed to restore campaign %d: %w", req.CampaignID, err)
	}
	result.Saved = true

	a.logger.Info("Campaign reverted", "campaign_id", req.CampaignID, "version", version.ID)
	return result, nil
}

// EditRequest replaces one email body of a campaign with edited plain text
type EditRequest struct {
	CampaignID int64
	Target     campaign.Target
	Text       string
	DryRun     bool
}

// EditResult reports an edit; Saved is false for dry runs and unchanged text
type EditResult struct {
	Plan   *campaign.EditPlan
	Backup *snapshot.Version
	Saved  bool
}

// BodyText returns one email body of a campaign as editable plain text
func (a *App) BodyText(ctx context.Context, campaignID int64, target campaign.Target) (string, error) {
	seqs, err := a.platform.GetCampaignSequences(ctx, campaignID)
	if err != nil {
		return "", fmt.Errorf("failed to read campaign %d: %w", campaignID, err)
	}
	return campaign.BodyText(seqs, target)
}

// EditSequence writes edited text into one step or variant body. The text is
// validated but invalid templates do not block the write. Unchanged text
// writes nothing; otherwise the campaign is snapshotted first.
func (a *App) EditSequence(ctx context.Context, req EditRequest) (*EditResult, error) {
	if req.CampaignID <= 0 {
		return nil, fmt.Errorf("campaign ID is required")
	}

	seqs, err := a.platform.GetCampaignSequences(ctx, req.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign %d: %w", req.CampaignID, err)
	}

	plan, err := campaign.PlanEdit(seqs, req.Target, req.Text)
	if err != nil {
		return nil, err
	}
	if !plan.Result.OK {
		a.logger.Warn("Edited text has an invalid template",
			"campaign_id", req.CampaignID,
			"target", req.Target.String(),
			"error_kind", plan.Result.Kind)
	}

	result := &EditResult{Plan: plan}
	if !plan.Changed || req.DryRun {
		return result, nil
	}

	result.Backup, err = a.backup(ctx, req.CampaignID, seqs,
		fmt.Sprintf("Before editing %s of campaign %d", req.Target, req.CampaignID))
	if err != nil {
		return nil, err
	}

	if _, err := a.platform.SaveSequences(ctx, req.CampaignID, plan.Inputs); err != nil {
		return nil, fmt.Errorf("failed to save sequences to campaign %d: %w", req.CampaignID, err)
	}
	result.Saved = true

	a.logger.Info("Sequence edited", "campaign_id", req.CampaignID, "target", req.Target.String())
	return result, nil
}

// Snapshot stores the campaign's current sequences
func (a *App) Snapshot(ctx context.Context, campaignID int64, message string) (*snapshot.Version, error) {
	current, err := a.platform.GetCampaignSequences(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign %d: %w", campaignID, err)
	}
	if message == "" {
		message = fmt.Sprintf("Snapshot of campaign %d", campaignID)
	}
	return a.backup(ctx, campaignID, current, message)
}

// History lists the stored versions of a campaign, newest first
func (a *App) History(campaignID int64) ([]snapshot.Version, error) {
	return a.store.List(campaignID)
}

// Lint validates every template in a campaign. When seqNumbers is non-empty
// only those sequence steps are checked.
func (a *App) Lint(ctx context.Context, campaignID int64, seqNumbers []int) ([]campaign.Finding, error) {
	seqs, err := a.platform.GetCampaignSequences(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign %d: %w", campaignID, err)
	}

	findings, err := campaign.Lint(seqs, campaign.LintOptions{Sequences: set.From(seqNumbers)})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Linted campaign", "campaign_id", campaignID, "sequences", len(seqs), "findings", len(findings))
	return findings, nil
}

// Campaigns lists the campaigns visible to the configured token
func (a *App) Campaigns(ctx context.Context) ([]campaign.Campaign, error) {
	return a.platform.ListCampaigns(ctx)
}

// Outline returns a campaign's name and step structure
func (a *App) Outline(ctx context.Context, campaignID int64) (string, []campaign.Sequence, error) {
	return a.platform.GetSequencesGraphQL(ctx, campaignID)
}

// SetFollowUpPercentage changes the share of leads that receive follow-ups
func (a *App) SetFollowUpPercentage(ctx context.Context, campaignID int64, percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("percentage must be between 0 and 100, got %v", percentage)
	}
	if err := a.platform.UpdateFollowUpPercentage(ctx, campaignID, percentage); err != nil {
		return fmt.Errorf("failed to update follow-up percentage: %w", err)
	}
	a.logger.Info("Follow-up percentage updated", "campaign_id", campaignID, "percentage", percentage)
	return nil
}
