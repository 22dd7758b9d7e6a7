package templatize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func TestTemplatizeNilBody(t *testing.T) {
	assert.Nil(t, Templatize(nil, "Acme", ""))
	assert.Nil(t, Templatize(nil, "", "CTO"))
	assert.Nil(t, Templatize(nil, "", ""))
}

func TestTemplatize(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		company  string
		title    string
		expected string
	}{
		{
			name:     "Name and company",
			body:     "Hi name, welcome to Company",
			company:  "Acme",
			expected: "Hi %sender-name%, welcome to Acme",
		},
		{
			name:     "Existing placeholder and field identifier are kept",
			body:     "Dear %sender-name%, your first_name is set",
			company:  "Acme",
			expected: "Dear %sender-name%, your first_name is set",
		},
		{
			name:     "Last name identifier is kept",
			body:     "Using last_name and LAST_NAME fields",
			company:  "Acme",
			expected: "Using last_name and LAST_NAME fields",
		},
		{
			name:     "Name followed by percent is kept",
			body:     "%sender-firstname% and %company_name%",
			company:  "Acme",
			expected: "%sender-firstname% and %company_name%",
		},
		{
			name:     "Case insensitive match",
			body:     "Name here, NAME there",
			company:  "Acme",
			expected: "%sender-name% here, %sender-name% there",
		},
		{
			name:     "Parentheses are preserved",
			body:     "Best,\n(name)",
			company:  "Acme",
			expected: "Best,\n(%sender-name%)",
		},
		{
			name:     "Title replaced when provided",
			body:     "As Title at Company, you know",
			company:  "Acme",
			title:    "VP Sales",
			expected: "As VP Sales at Acme, you know",
		},
		{
			name:     "Empty title leaves literal",
			body:     "As Title at Company",
			company:  "Acme",
			expected: "As Title at Acme",
		},
		{
			name:     "Empty company leaves literal",
			body:     "Company and Title",
			title:    "CEO",
			expected: "Company and CEO",
		},
		{
			name:     "Company match is case sensitive",
			body:     "company Company COMPANY",
			company:  "Acme",
			expected: "company Acme COMPANY",
		},
		{
			name:     "Every occurrence is replaced",
			body:     "Company, Company, Company",
			company:  "Acme",
			expected: "Acme, Acme, Acme",
		},
		{
			name:     "Spintax and conditions survive",
			body:     "{Hi|Hello} name,{{#if vip}} thanks Company{{/if}}",
			company:  "Acme",
			expected: "{Hi|Hello} %sender-name%,{{#if vip}} thanks Acme{{/if}}",
		},
		{
			name:     "Empty body",
			body:     "",
			company:  "Acme",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Templatize(ptr(tt.body), tt.company, tt.title)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, *result)
		})
	}
}

func TestTemplatizeIsIdempotent(t *testing.T) {
	bodies := []string{
		"Hi name, welcome to Company",
		"(name) at Company as Title",
		"Dear %sender-name%, your first_name is set",
	}

	for _, body := range bodies {
		once := Templatize(ptr(body), "Acme", "CTO")
		require.NotNil(t, once)
		twice := Templatize(once, "Acme", "CTO")
		require.NotNil(t, twice)
		assert.Equal(t, *once, *twice, body)
	}
}

func TestRewriterApply(t *testing.T) {
	r := Rewriter{Company: "Acme"}
	assert.Nil(t, r.Apply(nil))

	body := "name at Company"
	out := r.Apply(&body)
	require.NotNil(t, out)
	assert.Equal(t, "%sender-name% at Acme", *out)

	// input is not modified
	assert.Equal(t, "name at Company", body)
}
