// Package htmlsanitize cleans backend-supplied text before it reaches a page.
//
// Backend warnings and validation messages may carry light inline markup
// (emphasis, code, links). Message keeps that markup and drops everything
// else; Strip removes all tags.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	inlinePolicy = newInlinePolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

func newInlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "code", "br")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Message sanitizes s with the inline policy and marks it safe for templates.
func Message(s string) template.HTML {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return template.HTML(inlinePolicy.Sanitize(s))
}

// Strip removes every tag, keeping text content.
func Strip(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
