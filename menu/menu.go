// CLAUDE:SUMMARY Builds the "Copy XPath" context menu model from a candidate list and resolves clicked item IDs.
// Package menu turns a candidate list into the two-level context menu shown
// to the user: one root entry, one child per candidate, titled by its
// expression.
package menu

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/xpick/locator"
)

const (
	RootID    = "copy-xpath-root"
	RootTitle = "Copy XPath"

	// ItemPrefix starts every child item ID; the suffix is the 0-based
	// candidate index.
	ItemPrefix = "xpath-"

	// MaxTitle is the longest title, in characters, shown unabridged.
	MaxTitle = 120
)

// Item is one clickable menu entry.
type Item struct {
	ID        string            `json:"id"`
	ParentID  string            `json:"parent_id"`
	Title     string            `json:"title"`
	Candidate locator.Candidate `json:"candidate"`
}

// Menu is the root entry and its children, in candidate order.
type Menu struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Title renders expr as a menu title, cutting it at MaxTitle characters and
// marking the cut with an ellipsis.
func Title(expr string) string {
	if utf8.RuneCountInString(expr) <= MaxTitle {
		return expr
	}
	r := []rune(expr)
	return string(r[:MaxTitle]) + "…"
}

// Build creates the menu for cands. A Menu is not modified after Build.
func Build(cands []locator.Candidate) Menu {
	m := Menu{ID: RootID, Title: RootTitle, Items: make([]Item, 0, len(cands))}
	for i, c := range cands {
		m.Items = append(m.Items, Item{
			ID:        ItemID(i),
			ParentID:  RootID,
			Title:     Title(c.Expression),
			Candidate: c,
		})
	}
	return m
}

// ItemID returns the ID of the idx-th item.
func ItemID(idx int) string {
	return ItemPrefix + strconv.Itoa(idx)
}

// ParseItemID returns the candidate index encoded in id.
func ParseItemID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, ItemPrefix)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// Lookup resolves a clicked item ID to its candidate.
func (m Menu) Lookup(id string) (locator.Candidate, bool) {
	idx, ok := ParseItemID(id)
	if !ok || idx >= len(m.Items) {
		return locator.Candidate{}, false
	}
	return m.Items[idx].Candidate, true
}

// Titles returns the item titles in order.
func (m Menu) Titles() []string {
	out := make([]string, len(m.Items))
	for i, it := range m.Items {
		out[i] = it.Title
	}
	return out
}
