package drafting

import (
	"strings"

	"github.com/jonathan/training-report/internal/catalog"
)

// Sanitizer rewrites overclaiming phrases into softer ones
type Sanitizer struct {
	rules []catalog.Replacement
}

// NewSanitizer returns a sanitizer over the built-in banned phrase table
func NewSanitizer() *Sanitizer {
	return NewSanitizerWithRules(catalog.BannedPhrases())
}

// NewSanitizerWithRules returns a sanitizer applying rules in the given order
func NewSanitizerWithRules(rules []catalog.Replacement) *Sanitizer {
	return &Sanitizer{rules: append([]catalog.Replacement(nil), rules...)}
}

// Sanitize applies each rule once, in table order, replacing every literal
// occurrence. Output of one rule is seen only by the rules after it, so a
// second call may change the text again.
func (s *Sanitizer) Sanitize(text string) string {
	for _, r := range s.rules {
		if r.Banned == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Banned, r.Replacement)
	}
	return text
}
