// Package escape builds XPath 1.0 string literals.
//
// XPath 1.0 has no escape sequences inside literals: a literal is either
// "..." (no double quote inside) or '...' (no single quote inside). A value
// holding both quote kinds can only be expressed as a concat() call.
package escape

import "strings"

// Literal returns an XPath expression that evaluates to exactly s.
// The empty string yields "" (no token); callers check presence first.
func Literal(s string) string {
	if s == "" {
		return ""
	}
	hasDouble := strings.Contains(s, `"`)
	hasSingle := strings.Contains(s, `'`)
	switch {
	case hasDouble && hasSingle:
		return concat(s)
	case hasDouble:
		return `'` + s + `'`
	default:
		return `"` + s + `"`
	}
}

// concat splits s on double quotes and rejoins the pieces with '"' segments.
// s holds both quote kinds, so there are always at least two arguments.
func concat(s string) string {
	pieces := strings.Split(s, `"`)
	args := make([]string, 0, 2*len(pieces))
	for i, p := range pieces {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ",") + ")"
}
