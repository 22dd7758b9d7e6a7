// Package snapshot keeps a local version history of campaign sequences.
//
// Each saved version is a JSON document under <dir>/<campaign_id>/<version>.json.
// The document shape matches the history files the operator tools committed
// before, so older exports load unchanged.
package snapshot

import (
	"time"

	"github.com/chriscorrea/campctl/internal/campaign"
)

// VariantRecord is a stored variant
type VariantRecord struct {
	ID                     int64    `json:"id"`
	Label                  string   `json:"variant_label"`
	Subject                string   `json:"subject"`
	EmailBody              *string  `json:"email_body"`
	DistributionPercentage *float64 `json:"variant_distribution_percentage"`
}

// SequenceRecord is a stored sequence step
type SequenceRecord struct {
	ID           int64                `json:"id"`
	SeqNumber    int                  `json:"seq_number"`
	Subject      string               `json:"subject"`
	EmailBody    *string              `json:"email_body"`
	DelayDetails *campaign.DelayInput `json:"seq_delay_details"`
	Variants     []VariantRecord      `json:"variants"`
}

// Snapshot is the full sequence state of one campaign at a point in time
type Snapshot struct {
	CampaignID int64            `json:"campaign_id"`
	UpdatedAt  string           `json:"updated_at"`
	Message    string           `json:"message,omitempty"`
	Sequences  []SequenceRecord `json:"sequences"`
}

// FromSequences captures the given sequences of a campaign
func FromSequences(campaignID int64, seqs []campaign.Sequence) *Snapshot {
	snap := &Snapshot{
		CampaignID: campaignID,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		Sequences:  make([]SequenceRecord, 0, len(seqs)),
	}

	for _, seq := range seqs {
		record := SequenceRecord{
			ID:        seq.ID,
			SeqNumber: seq.SeqNumber,
			Subject:   seq.Subject,
			EmailBody: seq.EmailBody,
			Variants:  []VariantRecord{},
		}
		if seq.DelayDetails != nil {
			record.DelayDetails = &campaign.DelayInput{DelayInDays: seq.DelayDetails.DelayInDays}
		}
		for _, v := range seq.Variants() {
			record.Variants = append(record.Variants, VariantRecord{
				ID:                     v.ID,
				Label:                  v.Label,
				Subject:                v.Subject,
				EmailBody:              v.EmailBody,
				DistributionPercentage: v.DistributionPercentage,
			})
		}
		snap.Sequences = append(snap.Sequences, record)
	}

	return snap
}

// Inputs turns the snapshot back into write inputs. Stored IDs are kept so
// a write overwrites the steps and variants the snapshot was taken from.
func (s *Snapshot) Inputs() []campaign.SequenceInput {
	inputs := make([]campaign.SequenceInput, 0, len(s.Sequences))
	for _, seq := range s.Sequences {
		input := campaign.SequenceInput{
			SeqNumber: seq.SeqNumber,
			Subject:   seq.Subject,
			EmailBody: seq.EmailBody,
		}
		if seq.ID != 0 {
			input.ID = &seq.ID
		}
		if seq.DelayDetails != nil {
			input.DelayDetails = *seq.DelayDetails
		}
		for _, v := range seq.Variants {
			variant := campaign.VariantInput{
				Subject:                v.Subject,
				EmailBody:              v.EmailBody,
				Label:                  v.Label,
				DistributionPercentage: v.DistributionPercentage,
			}
			if v.ID != 0 {
				variant.ID = &v.ID
			}
			input.Variants = append(input.Variants, variant)
		}
		inputs = append(inputs, input)
	}
	return inputs
}
