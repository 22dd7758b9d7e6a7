// Package campaign models campaign-platform sequences and the pure steps the
// operator tools run on them: HTML/text conversion, template application and
// template linting.
package campaign

// Campaign is a campaign listing entry
type Campaign struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// DelayDetails is the read shape of a sequence delay
type DelayDetails struct {
	DelayInDays int `json:"delayInDays"`
}

// Variant is one A/B variant of a sequence step
type Variant struct {
	ID                     int64    `json:"id"`
	Label                  string   `json:"variant_label"`
	Subject                string   `json:"subject"`
	EmailBody              *string  `json:"email_body"`
	DistributionPercentage *float64 `json:"variant_distribution_percentage,omitempty"`
}

// Sequence is one step of a campaign as returned by the platform
type Sequence struct {
	ID           int64         `json:"id"`
	SeqNumber    int           `json:"seq_number"`
	Subject      string        `json:"subject"`
	EmailBody    *string       `json:"email_body"`
	DelayDetails *DelayDetails `json:"seq_delay_details,omitempty"`

	// the platform returns variants under either key depending on the endpoint
	SequenceVariants []Variant `json:"sequence_variants,omitempty"`
	SeqVariants      []Variant `json:"seq_variants,omitempty"`
}

// Variants returns whichever variant list the platform populated
func (s Sequence) Variants() []Variant {
	if len(s.SequenceVariants) > 0 {
		return s.SequenceVariants
	}
	return s.SeqVariants
}

// DelayInDays returns the configured delay, zero when unset
func (s Sequence) DelayInDays() int {
	if s.DelayDetails == nil {
		return 0
	}
	return s.DelayDetails.DelayInDays
}

// DelayInput is the write shape of a sequence delay
type DelayInput struct {
	DelayInDays int `json:"delay_in_days"`
}

// VariantInput is the write shape of a variant
type VariantInput struct {
	ID                     *int64   `json:"id,omitempty"`
	Subject                string   `json:"subject"`
	EmailBody              *string  `json:"email_body"`
	Label                  string   `json:"variant_label"`
	DistributionPercentage *float64 `json:"variant_distribution_percentage,omitempty"`
}

// SequenceInput is the write shape of a sequence step.
// A nil ID creates a new step; a set ID overwrites the existing one.
type SequenceInput struct {
	ID           *int64         `json:"id,omitempty"`
	SeqNumber    int            `json:"seq_number"`
	Subject      string         `json:"subject"`
	EmailBody    *string        `json:"email_body"`
	DelayDetails DelayInput     `json:"seq_delay_details"`
	Variants     []VariantInput `json:"seq_variants,omitempty"`
}

// Body dereferences an optional email body
func Body(body *string) string {
	if body == nil {
		return ""
	}
	return *body
}
