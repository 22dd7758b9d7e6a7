package campaign

import (
	"fmt"

	"github.com/chriscorrea/campctl/internal/spintax"

	"github.com/hashicorp/go-set/v3"
)

const (
	FieldSubject   = "subject"
	FieldEmailBody = "email_body"
)

// Finding is a template defect located in a campaign
type Finding struct {
	SeqNumber    int            `json:"seq_number"`
	VariantLabel string         `json:"variant_label,omitempty"`
	Field        string         `json:"field"`
	Result       spintax.Result `json:"result"`
}

// Location names where the finding sits, e.g. "sequence 2 variant B email_body"
func (f Finding) Location() string {
	if f.VariantLabel == "" {
		return fmt.Sprintf("sequence %d %s", f.SeqNumber, f.Field)
	}
	return fmt.Sprintf("sequence %d variant %s %s", f.SeqNumber, f.VariantLabel, f.Field)
}

// LintOptions narrows a lint run
type LintOptions struct {
	// only lint these sequence numbers; nil or empty lints every sequence
	Sequences *set.Set[int]
}

// Lint validates every subject and body in seqs. Bodies are converted from
// HTML to text first so positions match what an operator edits.
func Lint(seqs []Sequence, opts LintOptions) ([]Finding, error) {
	var findings []Finding

	check := func(seqNumber int, label, field, text string) {
		if text == "" {
			return
		}
		if result := spintax.Validate(text); !result.OK {
			findings = append(findings, Finding{
				SeqNumber:    seqNumber,
				VariantLabel: label,
				Field:        field,
				Result:       result,
			})
		}
	}

	body := func(b *string) (string, error) {
		if b == nil {
			return "", nil
		}
		return HTMLToText(*b)
	}

	for _, seq := range seqs {
		if opts.Sequences != nil && !opts.Sequences.Empty() && !opts.Sequences.Contains(seq.SeqNumber) {
			continue
		}

		check(seq.SeqNumber, "", FieldSubject, seq.Subject)
		text, err := body(seq.EmailBody)
		if err != nil {
			return nil, fmt.Errorf("failed to read sequence %d body: %w", seq.SeqNumber, err)
		}
		check(seq.SeqNumber, "", FieldEmailBody, text)

		for _, v := range seq.Variants() {
			check(seq.SeqNumber, v.Label, FieldSubject, v.Subject)
			text, err := body(v.EmailBody)
			if err != nil {
				return nil, fmt.Errorf("failed to read sequence %d variant %s body: %w", seq.SeqNumber, v.Label, err)
			}
			check(seq.SeqNumber, v.Label, FieldEmailBody, text)
		}
	}

	return findings, nil
}
