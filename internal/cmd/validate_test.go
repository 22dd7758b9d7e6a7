package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/chriscorrea/campctl/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	_, configPath := setupCLI(t)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("Hi {{first_name}}, {Hello|Hey} there"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("{{else}} trailing"), 0644))

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode int
		want     string
	}{
		{
			name:     "valid stdin",
			stdin:    "{Hi|Hello} {{first_name}}",
			args:     []string{"validate"},
			wantCode: app.ExitOK,
			want:     "<stdin>: OK\n",
		},
		{
			name:     "unclosed brace on stdin",
			stdin:    "{a|b",
			args:     []string{"validate"},
			wantCode: app.ExitInvalidTemplate,
			want:     "<stdin>: Unclosed opening brace at position 0\n    {a|b\n    ^\n",
		},
		{
			name:     "files in order",
			args:     []string{"validate", good, bad},
			wantCode: app.ExitInvalidTemplate,
			want: good + ": OK\n" +
				bad + ": ELSE without matching IF at position 0\n    {{else}} trailing\n    ^\n",
		},
		{
			name:     "stdin alongside a file",
			stdin:    "plain text",
			args:     []string{"validate", good, "-"},
			wantCode: app.ExitOK,
			want:     good + ": OK\n<stdin>: OK\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, configPath, tt.stdin, tt.args...)
			assert.Equal(t, tt.wantCode, app.ExitCode(err))
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestValidateCommand_JSON(t *testing.T) {
	_, configPath := setupCLI(t)

	out, err := runCLI(t, configPath, "{{#if tier = gold}}x{{/if}}", "validate", "--json")
	assert.Equal(t, app.ExitInvalidTemplate, app.ExitCode(err))

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "<stdin>", results[0]["name"])
	assert.Equal(t, false, results[0]["ok"])
	assert.Equal(t, "InvalidIfCondition", results[0]["error_kind"])
	assert.Equal(t, 0.0, results[0]["position"])

	out, err = runCLI(t, configPath, "{{#if cond}}hello", "validate", "--json")
	assert.Equal(t, app.ExitInvalidTemplate, app.ExitCode(err))
	assert.Contains(t, out, `"position": 0`)
	assert.Contains(t, out, `"error_kind": "UnclosedIf"`)
}

func TestValidateCommand_ContextWindow(t *testing.T) {
	_, configPath := setupCLI(t)

	_, err := runCLI(t, configPath, "", "config", "set", "context-window=3")
	require.NoError(t, err)

	out, err := runCLI(t, configPath, "abcdefgh}", "validate")
	assert.Equal(t, app.ExitInvalidTemplate, app.ExitCode(err))
	assert.Equal(t, "<stdin>: Unmatched closing brace at position 8\n    fgh}\n       ^\n", out)
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, configPath := setupCLI(t)

	_, err := runCLI(t, configPath, "", "validate", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, app.ExitFailure, app.ExitCode(err))
}

func TestTemplatizeCommand(t *testing.T) {
	_, configPath := setupCLI(t)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr error
	}{
		{
			name:  "company and title",
			stdin: "Hi name, Company needs a Title. Regards, %sender-name%",
			args:  []string{"templatize", "--company", " Acme ", "--title", "CTO"},
			want:  "Hi %sender-name%, Acme needs a CTO. Regards, %sender-name%",
		},
		{
			name:  "title left alone when unset",
			stdin: "Dear {{first_name}} at Company, Title",
			args:  []string{"templatize", "--company", "Acme"},
			want:  "Dear {{first_name}} at Acme, Title",
		},
		{
			name:    "blank company refused",
			stdin:   "Company",
			args:    []string{"templatize", "--company", "   "},
			wantErr: app.ErrMissingCompany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, configPath, tt.stdin, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestValidateHelpDescribesConditions(t *testing.T) {
	_, configPath := setupCLI(t)

	out, err := runCLI(t, configPath, "", "validate", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, `{{#if tier '==' "gold"}}`)
	assert.Contains(t, out, `{{#if tier == "gold"}}`)
}
