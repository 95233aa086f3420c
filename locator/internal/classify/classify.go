// CLAUDE:SUMMARY Classifies CSS class tokens as stable locator fragments or layout/utility noise using a declarative denylist.
// Package classify decides whether a CSS class token is stable enough to
// anchor a locator, as opposed to layout or utility-framework noise.
package classify

import (
	"strings"
	"unicode/utf8"
)

// DefaultDeny lists substrings that mark a class token as layout/utility
// noise. Matching is case-insensitive.
var DefaultDeny = []string{
	"col-", "row-", "grid", "layout", "container-", "wrapper-",
	"header", "footer", "main", "section", "nav", "aside", "__",
}

// Rules is the tunable data behind the classifier.
type Rules struct {
	// MinLength rejects tokens shorter than this many characters.
	MinLength int
	// Deny rejects tokens containing any of these substrings.
	Deny []string
	// RejectDigits rejects tokens containing an ASCII digit.
	RejectDigits bool
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		MinLength:    4,
		Deny:         append([]string(nil), DefaultDeny...),
		RejectDigits: true,
	}
}

// Classifier applies Rules. The zero value accepts every token.
type Classifier struct {
	minLength int
	deny      []string
	digits    bool
}

// New builds a Classifier from r.
func New(r Rules) *Classifier {
	deny := make([]string, 0, len(r.Deny))
	for _, d := range r.Deny {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			deny = append(deny, d)
		}
	}
	return &Classifier{minLength: r.MinLength, deny: deny, digits: r.RejectDigits}
}

// Stable reports whether token is a meaningful, reusable class.
func (c *Classifier) Stable(token string) bool {
	if token == "" || utf8.RuneCountInString(token) < c.minLength {
		return false
	}
	if c.digits && strings.ContainsAny(token, "0123456789") {
		return false
	}
	lower := strings.ToLower(token)
	for _, d := range c.deny {
		if strings.Contains(lower, d) {
			return false
		}
	}
	return true
}

// BestStable returns the first token of a class attribute, in source order,
// that passes Stable.
func (c *Classifier) BestStable(classAttr string) (string, bool) {
	for _, tok := range strings.Fields(classAttr) {
		if c.Stable(tok) {
			return tok, true
		}
	}
	return "", false
}
