package strategy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hazyhaar/xpick/dom"
)

// Absolute is the structural fallback: /tag1[n1]/tag2[n2]/.../tagK[nK],
// where n is the 1-based ordinal among same-tag element siblings. It never
// fails for a readable element.
type Absolute struct{}

func (Absolute) Name() string     { return "absolute" }
func (Absolute) Positional() bool { return true }

func (Absolute) Generate(el dom.Node) []Candidate {
	var steps []string
	for n := el; n != nil && n.Kind() == dom.ElementNode; n = n.Parent() {
		steps = append(steps, fmt.Sprintf("%s[%d]", stepOf(n), dom.Position(n)))
	}
	if len(steps) == 0 {
		return nil
	}
	slices.Reverse(steps)
	return []Candidate{{Label: "absolute", Expression: "/" + strings.Join(steps, "/")}}
}
