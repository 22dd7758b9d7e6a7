package campaign

import (
	"testing"

	"github.com/chriscorrea/campctl/internal/spintax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editSequences() []Sequence {
	return []Sequence{
		{
			ID:           11,
			SeqNumber:    1,
			Subject:      "Intro",
			EmailBody:    strPtr("<div>Hi {{first_name}},</div><div><br></div><div>{Quick|Short} question</div>"),
			DelayDetails: &DelayDetails{DelayInDays: 0},
			SequenceVariants: []Variant{
				{ID: 21, Label: "A", Subject: "Intro A", EmailBody: strPtr("<div>Variant A</div>")},
				{ID: 22, Label: "B", Subject: "Intro B", EmailBody: strPtr("<div>Variant B</div>")},
			},
		},
		{
			ID:           12,
			SeqNumber:    2,
			Subject:      "Bump",
			EmailBody:    strPtr("<div>Still there?</div>"),
			DelayDetails: &DelayDetails{DelayInDays: 3},
		},
	}
}

func TestBodyText(t *testing.T) {
	seqs := editSequences()

	text, err := BodyText(seqs, Target{SeqNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, "Hi {{first_name}},\n\n{Quick|Short} question\n", text)

	text, err = BodyText(seqs, Target{SeqNumber: 1, VariantLabel: "b"})
	require.NoError(t, err)
	assert.Equal(t, "Variant B\n", text)

	_, err = BodyText(seqs, Target{SeqNumber: 7})
	assert.ErrorIs(t, err, ErrStepNotFound)

	_, err = BodyText(seqs, Target{SeqNumber: 2, VariantLabel: "A"})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestPlanEdit(t *testing.T) {
	t.Run("Variant edit rewrites only that body", func(t *testing.T) {
		seqs := editSequences()

		plan, err := PlanEdit(seqs, Target{SeqNumber: 1, VariantLabel: "B"}, "New line\n\nSecond {a|b}\n")
		require.NoError(t, err)
		assert.True(t, plan.Changed)
		assert.True(t, plan.Result.OK)
		assert.Equal(t, "Variant B\n", plan.Original)

		require.Len(t, plan.Inputs, 2)
		first := plan.Inputs[0]
		assert.Equal(t, int64(11), *first.ID)
		assert.Equal(t, *seqs[0].EmailBody, *first.EmailBody)
		require.Len(t, first.Variants, 2)
		assert.Equal(t, "<div>Variant A</div>", *first.Variants[0].EmailBody)
		assert.Equal(t, "<div>New line</div><br><div>Second {a|b}</div>", *first.Variants[1].EmailBody)
		assert.Equal(t, int64(22), *first.Variants[1].ID)
		assert.Equal(t, 3, plan.Inputs[1].DelayDetails.DelayInDays)

		// caller's sequences are not modified
		assert.Equal(t, "<div>Variant B</div>", *seqs[0].SequenceVariants[1].EmailBody)
	})

	t.Run("Step body edit", func(t *testing.T) {
		plan, err := PlanEdit(editSequences(), Target{SeqNumber: 2}, "Any update?\n")
		require.NoError(t, err)
		require.True(t, plan.Changed)
		assert.Equal(t, "<div>Any update?</div>", *plan.Inputs[1].EmailBody)
	})

	t.Run("Whitespace only change is not an edit", func(t *testing.T) {
		plan, err := PlanEdit(editSequences(), Target{SeqNumber: 2}, "  Still there?\n\n")
		require.NoError(t, err)
		assert.False(t, plan.Changed)
		assert.Empty(t, plan.Inputs)
	})

	t.Run("Invalid template is a warning", func(t *testing.T) {
		plan, err := PlanEdit(editSequences(), Target{SeqNumber: 2}, "{{#if vip}}Hi\n")
		require.NoError(t, err)
		assert.True(t, plan.Changed)
		assert.False(t, plan.Result.OK)
		assert.Equal(t, spintax.UnclosedIf, plan.Result.Kind)
		assert.NotEmpty(t, plan.Inputs)
	})

	t.Run("Round trip keeps trailing blank line", func(t *testing.T) {
		seqs := []Sequence{{ID: 1, SeqNumber: 1, EmailBody: strPtr("<div>a</div><br>")}}
		text, err := BodyText(seqs, Target{SeqNumber: 1})
		require.NoError(t, err)
		assert.Equal(t, "<div>a</div><br>", TextToHTML(text[:len(text)-1]))
	})

	t.Run("Unknown step", func(t *testing.T) {
		_, err := PlanEdit(editSequences(), Target{SeqNumber: 9}, "x")
		assert.ErrorIs(t, err, ErrStepNotFound)
	})
}

func TestToInputs(t *testing.T) {
	inputs := ToInputs(editSequences())
	require.Len(t, inputs, 2)
	assert.Equal(t, int64(11), *inputs[0].ID)
	assert.Equal(t, 1, inputs[0].SeqNumber)
	assert.Equal(t, "A", inputs[0].Variants[0].Label)
	assert.Equal(t, int64(21), *inputs[0].Variants[0].ID)
	assert.Nil(t, inputs[1].Variants)
}
