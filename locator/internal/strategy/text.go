package strategy

import "github.com/hazyhaar/xpick/dom"

// Text matches the element's own normalized text by containment.
type Text struct {
	text TextRules
}

// NewText builds the text-content strategy.
func NewText(tr TextRules) *Text {
	return &Text{text: tr}
}

func (s *Text) Name() string { return "text" }

func (s *Text) Generate(el dom.Node) []Candidate {
	text, ok := s.text.usable(el)
	if !ok {
		return nil
	}
	return []Candidate{{
		Label:      "text",
		Expression: anywhere(stepOf(el), text.contains(".")),
	}}
}
