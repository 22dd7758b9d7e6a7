// Package templatize specializes generic campaign templates for a target company.
//
// Generic templates use the bare word "name" for the sender, and the literals
// "Company" and "Title" for the target. Rewrite swaps these for the
// %sender-name% placeholder and the supplied values without touching
// placeholders or field identifiers that already contain "name".
package templatize

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// SenderNamePlaceholder is inserted wherever a bare "name" is found
const SenderNamePlaceholder = "%sender-name%"

const (
	companyLiteral = "Company"
	titleLiteral   = "Title"
)

// "name" in any case, unless it is part of %sender-name%, first_name,
// last_name, or is immediately followed by a closing '%'
var namePattern = regexp2.MustCompile(`(?<!%sender-)(?<!first_)(?<!last_)name(?!%)`, regexp2.IgnoreCase)

// Rewriter holds the per-campaign values substituted into templates
type Rewriter struct {
	Company string
	Title   string
}

// Rewrite applies the substitutions in order: sender name, company, title.
// Empty Company or Title values leave their literals untouched.
func (r Rewriter) Rewrite(body string) string {
	out := replaceName(body)

	if r.Company != "" {
		out = strings.ReplaceAll(out, companyLiteral, r.Company)
	}

	if r.Title != "" {
		out = strings.ReplaceAll(out, titleLiteral, r.Title)
	}

	return out
}

// Apply rewrites body when it is set; a nil body is passed through
func (r Rewriter) Apply(body *string) *string {
	if body == nil {
		return nil
	}
	out := r.Rewrite(*body)
	return &out
}

// Templatize rewrites body for companyName and title.
// A nil body returns nil so unset fields can be passed straight through.
func Templatize(body *string, companyName, title string) *string {
	return Rewriter{Company: companyName, Title: title}.Apply(body)
}

func replaceName(body string) string {
	// Replace only errors on a match timeout, and none is configured
	out, err := namePattern.Replace(body, SenderNamePlaceholder, -1, -1)
	if err != nil {
		return body
	}
	return out
}
