package campaign

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriscorrea/campctl/internal/spintax"
)

var (
	// ErrStepNotFound is returned when a campaign has no step with the requested number
	ErrStepNotFound = errors.New("sequence step not found")

	// ErrVariantNotFound is returned when a step has no variant with the requested label
	ErrVariantNotFound = errors.New("variant not found")
)

// Target names one editable email body: a step's own body, or one of its
// variants when VariantLabel is set
type Target struct {
	SeqNumber    int
	VariantLabel string
}

func (t Target) String() string {
	if t.VariantLabel == "" {
		return fmt.Sprintf("sequence %d", t.SeqNumber)
	}
	return fmt.Sprintf("sequence %d variant %s", t.SeqNumber, t.VariantLabel)
}

// EditPlan is the outcome of planning a body edit
type EditPlan struct {
	Target   Target
	Original string
	Edited   string
	Changed  bool

	// Result is the validation of the edited text; failures are warnings
	Result spintax.Result

	// Inputs rewrite every step unchanged except the edited body
	Inputs []SequenceInput
}

// findBody returns a pointer to the targeted body inside seqs
func findBody(seqs []Sequence, target Target) (**string, error) {
	for i := range seqs {
		if seqs[i].SeqNumber != target.SeqNumber {
			continue
		}
		if target.VariantLabel == "" {
			return &seqs[i].EmailBody, nil
		}
		variants := seqs[i].Variants()
		for j := range variants {
			if strings.EqualFold(variants[j].Label, target.VariantLabel) {
				return &variants[j].EmailBody, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, target)
	}
	return nil, fmt.Errorf("%w: %s", ErrStepNotFound, target)
}

// BodyText returns the targeted body as editable plain text
func BodyText(seqs []Sequence, target Target) (string, error) {
	body, err := findBody(seqs, target)
	if err != nil {
		return "", err
	}
	if *body == nil {
		return "", nil
	}
	return HTMLToText(**body)
}

// PlanEdit replaces the targeted body with edited text. The text is
// validated, converted back to markup and compared with the current body;
// an unchanged edit yields Changed == false and no inputs.
func PlanEdit(seqs []Sequence, target Target, edited string) (*EditPlan, error) {
	original, err := BodyText(seqs, target)
	if err != nil {
		return nil, err
	}

	plan := &EditPlan{
		Target:   target,
		Original: original,
		Edited:   edited,
		Changed:  HasChanged(original, edited),
		Result:   spintax.Validate(edited),
	}
	if !plan.Changed {
		return plan, nil
	}

	// work on a copy so the caller's sequences are untouched
	copied := make([]Sequence, len(seqs))
	for i, seq := range seqs {
		copied[i] = seq
		copied[i].SequenceVariants = append([]Variant(nil), seq.SequenceVariants...)
		copied[i].SeqVariants = append([]Variant(nil), seq.SeqVariants...)
	}

	body, err := findBody(copied, target)
	if err != nil {
		return nil, err
	}
	// every converted <div> ends in a newline; drop the last so it does not
	// come back as an extra <br>
	markup := TextToHTML(strings.TrimSuffix(edited, "\n"))
	*body = &markup

	plan.Inputs = ToInputs(copied)
	return plan, nil
}

// ToInputs converts sequences read from the platform into write inputs that
// overwrite the same steps and variants
func ToInputs(seqs []Sequence) []SequenceInput {
	inputs := make([]SequenceInput, 0, len(seqs))
	for _, seq := range seqs {
		input := SequenceInput{
			SeqNumber:    seq.SeqNumber,
			Subject:      seq.Subject,
			EmailBody:    seq.EmailBody,
			DelayDetails: DelayInput{DelayInDays: seq.DelayInDays()},
		}
		if seq.ID != 0 {
			id := seq.ID
			input.ID = &id
		}
		for _, v := range seq.Variants() {
			variant := VariantInput{
				Subject:                v.Subject,
				EmailBody:              v.EmailBody,
				Label:                  v.Label,
				DistributionPercentage: v.DistributionPercentage,
			}
			if v.ID != 0 {
				id := v.ID
				variant.ID = &id
			}
			input.Variants = append(input.Variants, variant)
		}
		inputs = append(inputs, input)
	}
	return inputs
}
