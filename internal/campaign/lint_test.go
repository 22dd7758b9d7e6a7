package campaign

import (
	"testing"

	"github.com/chriscorrea/campctl/internal/spintax"

	"github.com/hashicorp/go-set/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lintSequences() []Sequence {
	return []Sequence{
		{
			SeqNumber: 1,
			Subject:   "{Hi|Hello",
			EmailBody: strPtr("<div>{{#if vip}}Thanks</div>"),
			SequenceVariants: []Variant{
				{Label: "A", Subject: "ok", EmailBody: strPtr("<div>{a|b}</div>")},
				{Label: "B", Subject: "ok", EmailBody: strPtr("<div>{{else}}</div>")},
			},
		},
		{
			SeqNumber: 2,
			Subject:   "fine",
			EmailBody: strPtr("<div>all good}</div>"),
		},
		{
			SeqNumber: 3,
			Subject:   "",
			EmailBody: nil,
		},
	}
}

func TestLint(t *testing.T) {
	findings, err := Lint(lintSequences(), LintOptions{})
	require.NoError(t, err)
	require.Len(t, findings, 4)

	assert.Equal(t, 1, findings[0].SeqNumber)
	assert.Equal(t, FieldSubject, findings[0].Field)
	assert.Equal(t, spintax.UnclosedOpeningBrace, findings[0].Result.Kind)
	assert.Equal(t, "sequence 1 subject", findings[0].Location())

	assert.Equal(t, FieldEmailBody, findings[1].Field)
	assert.Equal(t, spintax.UnclosedIf, findings[1].Result.Kind)
	assert.Equal(t, 0, findings[1].Result.Position)

	assert.Equal(t, "B", findings[2].VariantLabel)
	assert.Equal(t, spintax.ElseWithoutIf, findings[2].Result.Kind)
	assert.Equal(t, "sequence 1 variant B email_body", findings[2].Location())

	assert.Equal(t, 2, findings[3].SeqNumber)
	assert.Equal(t, spintax.UnmatchedClosingBrace, findings[3].Result.Kind)
	assert.Equal(t, 8, findings[3].Result.Position)
}

func TestLintSelectedSequences(t *testing.T) {
	findings, err := Lint(lintSequences(), LintOptions{Sequences: set.From([]int{2, 3})})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].SeqNumber)

	// an empty set lints everything
	findings, err = Lint(lintSequences(), LintOptions{Sequences: set.New[int](0)})
	require.NoError(t, err)
	assert.Len(t, findings, 4)
}

func TestLintClean(t *testing.T) {
	seqs := []Sequence{{SeqNumber: 1, Subject: "{Hi|Hey} there", EmailBody: strPtr("<div>{{#if a}}x{{else}}y{{/if}}</div>")}}
	findings, err := Lint(seqs, LintOptions{})
	require.NoError(t, err)
	assert.Empty(t, findings)
}
