// Package security strips markup from user supplied free text before it is
// stored or echoed to other users.
package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

type TextSanitizer interface {
	Text(raw string) string
}

type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes every tag, then unescapes entities so plain characters like
// "&" round-trip unchanged. Surrounding whitespace is trimmed.
func (s *Sanitizer) Text(raw string) string {
	if raw == "" {
		return ""
	}
	clean := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(clean))
}

// RuneLen counts characters, not bytes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
