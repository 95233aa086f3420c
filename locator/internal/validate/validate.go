// CLAUDE:SUMMARY Evaluates candidate XPaths against the live tree (antchfx/xpath) and applies the drop policy.
// Package validate checks raw candidates against the tree they were
// generated from. A failed check is a reason to drop the candidate, never an
// error for the caller.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xpath"

	"github.com/hazyhaar/xpick/dom"
)

// Mode selects how strictly a match set must relate to the target.
type Mode string

const (
	// ModeExact requires the expression to select the target and nothing else.
	ModeExact Mode = "exact"
	// ModeContains requires the target to be among the selected nodes.
	ModeContains Mode = "contains"
	// ModeAny only requires a non-empty selection.
	ModeAny Mode = "any"
)

// ParseMode maps a configuration string to a Mode. Empty means ModeExact.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeExact:
		return ModeExact, nil
	case ModeContains:
		return ModeContains, nil
	case ModeAny:
		return ModeAny, nil
	}
	return "", fmt.Errorf("validate: unknown mode %q", s)
}

// Drop reasons.
var (
	ErrCompile   = errors.New("expression does not compile")
	ErrEvaluate  = errors.New("evaluation failed")
	ErrNoMatch   = errors.New("matches no node")
	ErrNotTarget = errors.New("does not resolve to the target")
	ErrRootLevel = errors.New("resolves at document-root level")
	ErrBareDiv   = errors.New("div step without class containment")
)

// Target is the element under validation together with the root its
// expressions are evaluated from.
type Target struct {
	node dom.Node
	root dom.Node
	top  dom.Node
}

// NewTarget prepares el for validation. When el is detached, its top-most
// reachable ancestor is hung under a virtual document node.
func NewTarget(el dom.Node) *Target {
	top := dom.Root(el)
	if top.Kind() == dom.DocumentNode {
		return &Target{node: el, root: top}
	}
	return &Target{node: el, root: &virtualRoot{top: top}, top: top}
}

// Attached reports whether the target is reachable from a document node.
func (t *Target) Attached() bool { return t.top == nil }

func (t *Target) navigator() *navigator {
	return &navigator{root: t.root, top: t.top, cur: t.root, attr: -1}
}

// Validator applies the drop policy.
type Validator struct {
	mode Mode
}

// New creates a Validator. An empty mode means ModeExact.
func New(mode Mode) *Validator {
	if mode == "" {
		mode = ModeExact
	}
	return &Validator{mode: mode}
}

// Mode returns the configured match mode.
func (v *Validator) Mode() Mode { return v.mode }

// Check returns nil when expr is acceptable for t, or the reason it is not.
// positional expressions are anchored at the root by construction and skip
// the root-level and div rules.
func (v *Validator) Check(t *Target, expr string, positional bool) error {
	if !positional {
		if strings.HasPrefix(expr, "/html") || strings.HasPrefix(expr, "/body") {
			return ErrRootLevel
		}
		if err := checkDivSteps(expr); err != nil {
			return err
		}
	}

	limit := 0
	if v.mode == ModeExact {
		// Two matches already rule out exact resolution.
		limit = 2
	}
	matches, err := selectAll(t, expr, limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return ErrNoMatch
	}
	if !positional {
		for _, m := range matches {
			if m != nil && m.Kind() == dom.ElementNode && (m.Tag() == "html" || m.Tag() == "body") {
				return ErrRootLevel
			}
		}
	}

	switch v.mode {
	case ModeAny:
		return nil
	case ModeContains:
		for _, m := range matches {
			if m == t.node {
				return nil
			}
		}
		return ErrNotTarget
	default:
		if len(matches) == 1 && matches[0] == t.node {
			return nil
		}
		return ErrNotTarget
	}
}

// Select evaluates expr against t's tree and returns the selected nodes,
// stopping after limit nodes when limit is positive. Attribute selections
// are reported as nil entries.
func (v *Validator) Select(t *Target, expr string, limit int) ([]dom.Node, error) {
	return selectAll(t, expr, limit)
}

func selectAll(t *Target, expr string, limit int) (matches []dom.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("%w: %v", ErrEvaluate, r)
		}
	}()

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	iter := compiled.Select(t.navigator())
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok || nav.attr != -1 {
			matches = append(matches, nil)
		} else {
			matches = append(matches, nav.cur)
		}
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// checkDivSteps rejects //div steps that are too ambiguous to anchor on: a
// //div wrapper followed by further steps must carry contains(@class,...),
// and a final //div step must carry at least one attribute condition.
// Steps inside predicates and string literals are not inspected.
func checkDivSteps(expr string) error {
	depth := 0
	var quote byte
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[':
			depth++
		case ']':
			depth--
		case '/':
			if depth != 0 || !strings.HasPrefix(expr[i:], "//div") || !stepEnds(expr, i+5) {
				continue
			}
			preds, end := predicates(expr, i+5)
			if end < len(expr) {
				if !strings.Contains(preds, "contains(@class") {
					return ErrBareDiv
				}
			} else if !strings.Contains(preds, "@") {
				return ErrBareDiv
			}
			i = end - 1
		}
	}
	return nil
}

func stepEnds(expr string, j int) bool {
	return j >= len(expr) || expr[j] == '[' || expr[j] == '/'
}

// predicates collects the bracketed predicates starting at j and returns
// them with the index just past the last one.
func predicates(expr string, j int) (string, int) {
	start := j
	for j < len(expr) && expr[j] == '[' {
		depth := 0
		var quote byte
		for ; j < len(expr); j++ {
			c := expr[j]
			if quote != 0 {
				if c == quote {
					quote = 0
				}
				continue
			}
			if c == '"' || c == '\'' {
				quote = c
			} else if c == '[' {
				depth++
			} else if c == ']' {
				depth--
				if depth == 0 {
					j++
					break
				}
			}
		}
	}
	return expr[start:j], j
}
