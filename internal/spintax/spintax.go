// Package spintax validates campaign email templates.
//
// A template mixes conditional blocks ({{#if cond}}...{{else}}...{{/if}}),
// spintax groups ({a|b|c}) and %placeholder% tokens. Validate reports the
// first structural defect it finds, together with the character offset of
// the defect and a short caret display for humans.
//
// Checks run in a fixed order and the first failure wins:
//  1. block balance (CheckBlocks)
//  2. condition syntax (CheckConditions)
//  3. brace balance (CheckBraces)
//
// Malformed text is never an error here, it is the expected output.
package spintax

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// DefaultWindow is the number of characters shown on each side of a defect
const DefaultWindow = 40

// ErrorKind identifies a class of template defect
type ErrorKind string

const (
	ElseWithoutIf         ErrorKind = "ElseWithoutIf"
	EndifWithoutIf        ErrorKind = "EndifWithoutIf"
	UnclosedIf            ErrorKind = "UnclosedIf"
	InvalidIfCondition    ErrorKind = "InvalidIfCondition"
	UnmatchedClosingBrace ErrorKind = "UnmatchedClosingBrace"
	UnclosedOpeningBrace  ErrorKind = "UnclosedOpeningBrace"
)

var kindMessages = map[ErrorKind]string{
	ElseWithoutIf:         "ELSE without matching IF",
	EndifWithoutIf:        "ENDIF without matching IF",
	UnclosedIf:            "IF without closing ENDIF",
	InvalidIfCondition:    "Invalid IF condition syntax",
	UnmatchedClosingBrace: "Unmatched closing brace",
	UnclosedOpeningBrace:  "Unclosed opening brace",
}

// Message returns the human readable label for the kind
func (k ErrorKind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return string(k)
}

// ErrInvalidTemplate is matched by every *TemplateError via errors.Is
var ErrInvalidTemplate = errors.New("invalid template")

// Result is the outcome of a template check.
// Position is a zero-based character (rune) offset into the checked text.
type Result struct {
	OK       bool
	Kind     ErrorKind
	Position int
	Context  string
}

// JSONResult is the wire form of a Result. Position is present on every
// failure, including failures at offset 0, and absent on success.
type JSONResult struct {
	OK       bool      `json:"ok"`
	Kind     ErrorKind `json:"error_kind,omitempty"`
	Position *int      `json:"position,omitempty"`
	Context  string    `json:"context,omitempty"`
}

// JSON returns the wire form of r
func (r Result) JSON() JSONResult {
	out := JSONResult{OK: r.OK}
	if !r.OK {
		pos := r.Position
		out.Kind = r.Kind
		out.Position = &pos
		out.Context = r.Context
	}
	return out
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.JSON())
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var in JSONResult
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Result{OK: in.OK, Kind: in.Kind, Context: in.Context}
	if in.Position != nil {
		r.Position = *in.Position
	}
	return nil
}

// Err converts a failed result into an error; it returns nil for OK results
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &TemplateError{Kind: r.Kind, Position: r.Position, Context: r.Context}
}

// TemplateError carries a failed Result through Go error plumbing
type TemplateError struct {
	Kind     ErrorKind
	Position int
	Context  string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Kind.Message(), e.Position)
}

// Is reports ErrInvalidTemplate as a match
func (e *TemplateError) Is(target error) bool {
	return target == ErrInvalidTemplate
}

// Patterns use .NET semantics, so \s and \w cover Unicode: a non-breaking
// space after "{{#if" still opens a block and identifiers may be accented.
var (
	// markers in left-to-right order; the opening marker ends at the first "}}"
	tokenPattern = regexp2.MustCompile(`\{\{#if\s+.+?\}\}|\{\{else\}\}|\{\{/if\}\}`, regexp2.None)
	ifOpen       = regexp2.MustCompile(`\{\{#if\s+.+?\}\}`, regexp2.None)

	// the operator is accepted quoted ('==') as in existing templates, or bare;
	// both need surrounding whitespace
	conditionEquals = regexp2.MustCompile(`^\{\{#if\s+\w+\s+(?:'=='|==)\s+"[^"]+"\s*\}\}\z`, regexp2.None)
	conditionSimple = regexp2.MustCompile(`^\{\{#if\s+\w+\s*\}\}\z`, regexp2.None)
)

// marker is a pattern match; Start is a rune offset
type marker struct {
	Start int
	Text  string
}

// findMarkers returns every non-overlapping match of re in text, left to right
func findMarkers(re *regexp2.Regexp, text string) []marker {
	var markers []marker

	// errors only come from match timeouts, which these patterns do not set
	m, _ := re.FindStringMatch(text)
	for m != nil {
		markers = append(markers, marker{Start: m.Index, Text: m.String()})
		m, _ = re.FindNextMatch(m)
	}
	return markers
}

// Validate runs every check in order and returns the first failure
func Validate(text string) Result {
	checks := []func(string) Result{
		CheckBlocks,
		CheckConditions,
		CheckBraces,
	}

	for _, check := range checks {
		if result := check(text); !result.OK {
			return result
		}
	}

	return Result{OK: true}
}

// CheckBlocks verifies that {{#if}}, {{else}} and {{/if}} markers nest properly
func CheckBlocks(text string) Result {
	var stack []int

	for _, m := range findMarkers(tokenPattern, text) {
		token := m.Text
		pos := m.Start

		switch {
		case strings.HasPrefix(token, "{{#if"):
			stack = append(stack, pos)
		case token == "{{else}}":
			if len(stack) == 0 {
				return failure(text, ElseWithoutIf, pos)
			}
		case token == "{{/if}}":
			if len(stack) == 0 {
				return failure(text, EndifWithoutIf, pos)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return failure(text, UnclosedIf, stack[len(stack)-1])
	}

	return Result{OK: true}
}

// CheckConditions verifies the syntax of every opening {{#if ...}} marker.
// It does not depend on the markers being balanced.
func CheckConditions(text string) Result {
	for _, m := range findMarkers(ifOpen, text) {
		if !ValidCondition(m.Text) {
			return failure(text, InvalidIfCondition, m.Start)
		}
	}

	return Result{OK: true}
}

// ValidCondition reports whether a full opening marker has an accepted condition
func ValidCondition(marker string) bool {
	if ok, _ := conditionEquals.MatchString(marker); ok {
		return true
	}
	ok, _ := conditionSimple.MatchString(marker)
	return ok
}

// CheckBraces verifies that every '{' has a later matching '}'
func CheckBraces(text string) Result {
	var stack []int

	for i, r := range []rune(text) {
		switch r {
		case '{':
			stack = append(stack, i)
		case '}':
			if len(stack) == 0 {
				return failure(text, UnmatchedClosingBrace, i)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return failure(text, UnclosedOpeningBrace, stack[len(stack)-1])
	}

	return Result{OK: true}
}

// failure builds a failed result at rune offset pos
func failure(text string, kind ErrorKind, pos int) Result {
	return Result{
		OK:       false,
		Kind:     kind,
		Position: pos,
		Context:  ContextSnippet(text, pos, DefaultWindow),
	}
}

// ContextSnippet renders up to window characters on either side of pos,
// followed by a line with a caret under the character at pos.
func ContextSnippet(text string, pos, window int) string {
	runes := []rune(text)
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	start := max(0, pos-window)
	end := min(len(runes), pos+window)

	pointer := strings.Repeat(" ", pos-start) + "^"
	return string(runes[start:end]) + "\n" + pointer
}
