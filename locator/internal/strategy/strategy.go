// CLAUDE:SUMMARY Candidate/Strategy types, default pipeline order, and shared helpers (usable text, NCName steps, predicates).
// Package strategy holds the candidate heuristics. Each strategy inspects one
// element and emits raw, unvalidated XPath candidates; ordering, validation
// and deduplication belong to the engine.
package strategy

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/locator/internal/classify"
	"github.com/hazyhaar/xpick/locator/internal/escape"
)

// Candidate is a labeled locator expression.
type Candidate struct {
	Label      string `json:"label"`
	Expression string `json:"xpath"`
}

// Strategy produces raw candidates for one element.
type Strategy interface {
	Name() string
	Generate(el dom.Node) []Candidate
}

// Positional is implemented by strategies whose expressions are anchored at
// the document root by construction. The validator exempts them from the
// root-level rule, and they are the only ones run on detached elements.
type Positional interface {
	Positional() bool
}

// IsPositional reports whether s declares itself positional.
func IsPositional(s Strategy) bool {
	p, ok := s.(Positional)
	return ok && p.Positional()
}

// DefaultAttributes is the single-attribute priority list, most robust first.
var DefaultAttributes = []string{
	"id", "data-testid", "data-test", "data-cy",
	"name", "aria-label", "title", "placeholder",
	"href", "src", "type", "role", "class",
}

// DefaultInputAttributes are appended to the priority list for <input>.
var DefaultInputAttributes = []string{"value"}

// DefaultInlineTags may appear inside an element whose text is still
// considered its own.
var DefaultInlineTags = []string{
	"b", "i", "em", "strong", "span", "small", "code", "mark", "u", "s",
	"sub", "sup", "abbr", "br", "wbr", "kbd", "q", "time",
}

// Options parameterises the default pipeline.
type Options struct {
	Attributes      []string
	InputAttributes []string
	MinTextLen      int
	MaxTextLen      int
	InlineTags      []string
	MaxWrappers     int
	Classes         *classify.Classifier
}

func (o *Options) defaults() {
	if len(o.Attributes) == 0 {
		o.Attributes = DefaultAttributes
	}
	if o.InputAttributes == nil {
		o.InputAttributes = DefaultInputAttributes
	}
	if o.MinTextLen <= 0 {
		o.MinTextLen = 2
	}
	if o.MaxTextLen <= 0 {
		o.MaxTextLen = 100
	}
	if len(o.InlineTags) == 0 {
		o.InlineTags = DefaultInlineTags
	}
	if o.MaxWrappers <= 0 {
		o.MaxWrappers = 5
	}
	if o.Classes == nil {
		o.Classes = classify.New(classify.DefaultRules())
	}
}

// Default returns the built-in pipeline in priority order. The absolute
// fallback is always last.
func Default(opts Options) []Strategy {
	opts.defaults()
	tr := NewTextRules(opts)
	return []Strategy{
		NewAttributes(opts.Attributes, opts.InputAttributes),
		NewText(tr),
		NewPairs(),
		NewSpecial(tr),
		NewWrappers(opts.MaxWrappers, opts.Classes, tr),
		NewAttrText(tr),
		Absolute{},
	}
}

// TextRules decides when an element's text is usable in a predicate.
type TextRules struct {
	min, max int
	inline   map[string]bool
}

// NewTextRules derives text rules from opts; zero fields take defaults.
func NewTextRules(opts Options) TextRules {
	opts.defaults()
	inline := make(map[string]bool, len(opts.InlineTags))
	for _, t := range opts.InlineTags {
		inline[strings.ToLower(t)] = true
	}
	return TextRules{min: opts.MinTextLen, max: opts.MaxTextLen, inline: inline}
}

func (r TextRules) bounded(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= r.min && n <= r.max
}

// usable returns the text of el when el is a text leaf (only inline element
// children) and the text length is within bounds.
func (r TextRules) usable(el dom.Node) (phrase, bool) {
	for _, c := range dom.ElementChildren(el) {
		if !r.inline[c.Tag()] {
			return phrase{}, false
		}
	}
	return r.prepare(dom.TextContent(el))
}

// prepare readies raw text for a normalize-space() predicate. Text holding
// Unicode spaces other than XML whitespace and U+00A0 is refused: XPath
// engines disagree on whether normalize-space() collapses them.
func (r TextRules) prepare(raw string) (phrase, bool) {
	for _, c := range raw {
		if c != nbsp && unicode.IsSpace(c) && !dom.IsXMLSpace(c) {
			return phrase{}, false
		}
	}
	p := phrase{
		value: dom.NormalizeSpace(strings.ReplaceAll(raw, string(nbsp), " ")),
		nbsp:  strings.ContainsRune(raw, nbsp),
	}
	if !r.bounded(p.value) {
		return phrase{}, false
	}
	return p, true
}

const nbsp = '\u00a0'

// phrase is element text ready to be matched with normalize-space().
type phrase struct {
	value string
	// nbsp marks text that held U+00A0; it is mapped to a space with
	// translate() before normalizing.
	nbsp bool
}

// norm renders normalize-space() over arg.
func (p phrase) norm(arg string) string {
	if p.nbsp {
		return "normalize-space(translate(" + arg + `,"` + string(nbsp) + `"," "))`
	}
	return "normalize-space(" + arg + ")"
}

// equals renders normalize-space(arg)=TEXT.
func (p phrase) equals(arg string) string {
	return p.norm(arg) + "=" + escape.Literal(p.value)
}

// contains renders contains(normalize-space(arg),TEXT).
func (p phrase) contains(arg string) string {
	return "contains(" + p.norm(arg) + "," + escape.Literal(p.value) + ")"
}

// step renders an element name test. Names that are not valid NCNames are
// matched through local-name().
func step(tag string) string {
	if isNCName(tag) {
		return tag
	}
	return fmt.Sprintf("*[local-name()=%s]", escape.Literal(tag))
}

// stepOf renders the name test for el. Elements outside the HTML namespace
// are matched through local-name(): browsers do not match them with a bare
// name in HTML documents.
func stepOf(el dom.Node) string {
	if dom.Foreign(el) {
		return fmt.Sprintf("*[local-name()=%s]", escape.Literal(el.Tag()))
	}
	return step(el.Tag())
}

// anywhere renders //name[pred...] with the predicates joined by "and".
// name is a rendered step (see stepOf) or a literal HTML tag.
func anywhere(name string, preds ...string) string {
	if len(preds) == 0 {
		return "//" + name
	}
	return fmt.Sprintf("//%s[%s]", name, strings.Join(preds, " and "))
}

// attrEquals renders @name=VALUE.
func attrEquals(name, value string) string {
	return "@" + name + "=" + escape.Literal(value)
}

// classContains renders contains(@class,TOKEN).
func classContains(token string) string {
	return "contains(@class," + escape.Literal(token) + ")"
}

// attrCondition renders the condition used for attribute name on el:
// class-containment on the first class token for "class", equality
// otherwise. ok is false when the attribute is absent or empty.
func attrCondition(el dom.Node, name string) (string, bool) {
	if !isNCName(name) {
		return "", false
	}
	val := dom.AttrValue(el, name)
	if val == "" {
		return "", false
	}
	if name == "class" {
		first := firstToken(val)
		if first == "" {
			return "", false
		}
		return classContains(first), true
	}
	return attrEquals(name, val), true
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// isNCName reports whether s is a valid XML non-colonised name.
func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
