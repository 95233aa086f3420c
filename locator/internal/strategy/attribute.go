package strategy

import (
	"slices"

	"github.com/hazyhaar/xpick/dom"
)

// Attributes emits //tag[@attr=VALUE] for every present attribute of the
// priority list, in list order. class is matched by containment of its
// first token so that class-list reordering does not break the locator.
type Attributes struct {
	names      []string
	inputNames []string
}

// NewAttributes builds the single-attribute strategy. inputNames are
// consulted after names when the element is an <input>.
func NewAttributes(names, inputNames []string) *Attributes {
	return &Attributes{names: names, inputNames: inputNames}
}

func (s *Attributes) Name() string { return "attribute" }

func (s *Attributes) Generate(el dom.Node) []Candidate {
	names := s.names
	if el.Tag() == "input" {
		names = slices.Concat(s.names, s.inputNames)
	}
	var out []Candidate
	for _, name := range names {
		cond, ok := attrCondition(el, name)
		if !ok {
			continue
		}
		out = append(out, Candidate{Label: "@" + name, Expression: anywhere(stepOf(el), cond)})
	}
	return out
}

// attributePairs are emitted only when both members are present.
var attributePairs = [][2]string{
	{"name", "class"},
	{"aria-label", "class"},
}

// Pairs combines two attributes into one predicate.
type Pairs struct {
	pairs [][2]string
}

// NewPairs builds the attribute-pair strategy over the fixed pair list.
func NewPairs() *Pairs {
	return &Pairs{pairs: attributePairs}
}

func (s *Pairs) Name() string { return "attr-pair" }

func (s *Pairs) Generate(el dom.Node) []Candidate {
	var out []Candidate
	for _, p := range s.pairs {
		a, okA := attrCondition(el, p[0])
		b, okB := attrCondition(el, p[1])
		if !okA || !okB {
			continue
		}
		out = append(out, Candidate{Label: "attr-combo", Expression: anywhere(stepOf(el), a, b)})
	}
	return out
}

// attrTextNames are combined with the element text by AttrText.
var attrTextNames = []string{"id", "name", "aria-label", "title"}

// AttrText pins every identifying attribute together with the exact
// normalized text: //tag[@id=.. and @name=.. and normalize-space(.)=TEXT].
type AttrText struct {
	text TextRules
}

// NewAttrText builds the attribute+text strategy.
func NewAttrText(tr TextRules) *AttrText {
	return &AttrText{text: tr}
}

func (s *AttrText) Name() string { return "attr-text" }

func (s *AttrText) Generate(el dom.Node) []Candidate {
	text, ok := s.text.usable(el)
	if !ok {
		return nil
	}
	var conds []string
	for _, name := range attrTextNames {
		if v := dom.AttrValue(el, name); v != "" {
			conds = append(conds, attrEquals(name, v))
		}
	}
	if len(conds) == 0 {
		return nil
	}
	conds = append(conds, text.equals("."))
	return []Candidate{{Label: "attr+text", Expression: anywhere(stepOf(el), conds...)}}
}
