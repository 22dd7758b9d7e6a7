package campaign

import (
	"github.com/chriscorrea/campctl/internal/templatize"
)

// PlanOptions holds the per-target values used when cloning a template
type PlanOptions struct {
	Company string
	Title   string

	// also rewrite subjects; bodies are always rewritten
	IncludeSubjects bool
}

// PlanTemplateApply maps the template campaign's sequences onto the target
// campaign. Steps are matched by position so the target keeps its existing
// sequence IDs; template steps beyond the target's length are created.
func PlanTemplateApply(template, current []Sequence, opts PlanOptions) []SequenceInput {
	rw := templatize.Rewriter{Company: opts.Company, Title: opts.Title}

	subject := func(s string) string {
		if opts.IncludeSubjects {
			return rw.Rewrite(s)
		}
		return s
	}

	inputs := make([]SequenceInput, 0, len(template))
	for i, seq := range template {
		var existingID *int64
		if i < len(current) {
			id := current[i].ID
			existingID = &id
		}

		seqNumber := seq.SeqNumber
		if seqNumber == 0 {
			seqNumber = i + 1
		}

		var variants []VariantInput
		for _, v := range seq.Variants() {
			variants = append(variants, VariantInput{
				Subject:                subject(v.Subject),
				EmailBody:              rw.Apply(v.EmailBody),
				Label:                  v.Label,
				DistributionPercentage: v.DistributionPercentage,
			})
		}

		inputs = append(inputs, SequenceInput{
			ID:           existingID,
			SeqNumber:    seqNumber,
			Subject:      subject(seq.Subject),
			EmailBody:    rw.Apply(seq.EmailBody),
			DelayDetails: DelayInput{DelayInDays: seq.DelayInDays()},
			Variants:     variants,
		})
	}

	return inputs
}
