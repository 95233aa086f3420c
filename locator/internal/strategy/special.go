package strategy

import (
	"strings"

	"github.com/hazyhaar/xpick/dom"
)

// Special holds per-tag heuristics for links, inputs and labels.
type Special struct {
	text TextRules
}

// NewSpecial builds the per-tag strategy.
func NewSpecial(tr TextRules) *Special {
	return &Special{text: tr}
}

func (s *Special) Name() string { return "special" }

func (s *Special) Generate(el dom.Node) []Candidate {
	if dom.Foreign(el) {
		return nil
	}
	switch el.Tag() {
	case "a":
		return s.anchor(el)
	case "input":
		return s.input(el)
	case "label":
		return s.label(el)
	}
	return nil
}

func (s *Special) anchor(el dom.Node) []Candidate {
	href := dom.AttrValue(el, "href")
	if href == "" {
		return nil
	}
	var out []Candidate
	if title := dom.AttrValue(el, "title"); title != "" {
		out = append(out, Candidate{
			Label:      "link-href-title",
			Expression: anywhere("a", attrEquals("href", href), attrEquals("title", title)),
		})
	}
	for _, c := range dom.ElementChildren(el) {
		if !s.text.inline[c.Tag()] {
			continue
		}
		text, ok := s.text.prepare(dom.TextContent(c))
		if !ok {
			continue
		}
		nested := stepOf(c) + "[" + text.equals(".") + "]"
		out = append(out, Candidate{
			Label:      "link-text",
			Expression: anywhere("a", attrEquals("href", href), nested),
		})
		break
	}
	return out
}

func (s *Special) input(el dom.Node) []Candidate {
	typ := dom.AttrValue(el, "type")
	value := dom.AttrValue(el, "value")
	var out []Candidate

	switch strings.ToLower(typ) {
	case "submit":
		conds := []string{attrEquals("type", typ)}
		if value != "" {
			conds = append(conds, attrEquals("value", value))
		}
		out = append(out, Candidate{Label: "input-submit", Expression: anywhere("input", conds...)})
	case "search":
		out = append(out, s.search(el, typ)...)
	}

	if value != "" {
		var conds []string
		if typ != "" {
			conds = append(conds, attrEquals("type", typ))
		}
		conds = append(conds, attrEquals("value", value))
		out = append(out, Candidate{Label: "input-value", Expression: anywhere("input", conds...)})
	}
	return out
}

func (s *Special) search(el dom.Node, typ string) []Candidate {
	conds := []string{attrEquals("type", typ)}
	if c, ok := attrCondition(el, "class"); ok {
		conds = append(conds, c)
	}
	if title := dom.AttrValue(el, "title"); title != "" {
		conds = append(conds, attrEquals("title", title))
	}
	out := []Candidate{{Label: "input-search", Expression: anywhere("input", conds...)}}

	// Scope by the nearest ancestor carrying a "field" class token.
	for p := el.Parent(); p != nil && p.Kind() == dom.ElementNode; p = p.Parent() {
		token, ok := fieldToken(dom.AttrValue(p, "class"))
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Label:      "input-search-field",
			Expression: anywhere(stepOf(p), classContains(token)) + anywhere("input", attrEquals("type", typ)),
		})
		break
	}
	return out
}

func fieldToken(classAttr string) (string, bool) {
	for _, tok := range strings.Fields(classAttr) {
		if strings.Contains(strings.ToLower(tok), "field") {
			return tok, true
		}
	}
	return "", false
}

func (s *Special) label(el dom.Node) []Candidate {
	// text() in a string context reads the first text child only.
	for _, c := range el.Children() {
		if c.Kind() != dom.TextNode {
			continue
		}
		first, ok := s.text.prepare(c.Data())
		if !ok {
			return nil
		}
		return []Candidate{{
			Label:      "label-text",
			Expression: "//label[" + first.equals("text()") + "]",
		}}
	}
	return nil
}
