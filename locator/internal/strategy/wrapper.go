package strategy

import (
	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/locator/internal/classify"
)

// Wrappers anchors the element on stable classes of its <div> ancestors:
// //div[contains(@class,STABLE)]//tag[...]. At most max distinct classes
// are used, nearest ancestor first.
type Wrappers struct {
	max     int
	classes *classify.Classifier
	text    TextRules
}

// NewWrappers builds the ancestor/wrapper strategy.
func NewWrappers(limit int, classes *classify.Classifier, tr TextRules) *Wrappers {
	return &Wrappers{max: limit, classes: classes, text: tr}
}

func (s *Wrappers) Name() string { return "wrapper" }

func (s *Wrappers) Generate(el dom.Node) []Candidate {
	var preds []string
	if text, ok := s.text.usable(el); ok {
		preds = append(preds, text.contains("."))
	}
	tail := anywhere(stepOf(el), preds...)

	var out []Candidate
	seen := make(map[string]bool)
	// A nil parent ends the walk: detached chains yield what was collected.
	for p := el.Parent(); p != nil && len(out) < s.max; p = p.Parent() {
		if p.Kind() != dom.ElementNode || p.Tag() != "div" {
			continue
		}
		stable, ok := s.classes.BestStable(dom.AttrValue(p, "class"))
		if !ok || seen[stable] {
			continue
		}
		seen[stable] = true
		out = append(out, Candidate{
			Label:      "div-wrapper",
			Expression: anywhere("div", classContains(stable)) + tail,
		})
	}
	return out
}
