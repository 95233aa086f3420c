// Package sink delivers picked locators to output backends.
package sink

import (
	"context"
	"time"

	"github.com/hazyhaar/xpick/locator"
)

// Pick is one element pick: the candidate list shown for the element and
// the entry the user chose.
type Pick struct {
	ID         string              `json:"id"`
	PageURL    string              `json:"page_url,omitempty"`
	Tag        string              `json:"tag"`
	Candidates []locator.Candidate `json:"candidates"`
	// Selected indexes Candidates; -1 when nothing was chosen.
	Selected  int       `json:"selected"`
	Timestamp time.Time `json:"timestamp"`
}

// Expression returns the selected candidate's expression.
func (p Pick) Expression() (string, bool) {
	if p.Selected < 0 || p.Selected >= len(p.Candidates) {
		return "", false
	}
	return p.Candidates[p.Selected].Expression, true
}

// Sink is the output interface. Implementations deliver picks to
// different backends (stdout, webhook, clipboard, in-process callback).
type Sink interface {
	Send(ctx context.Context, pick Pick) error
	Close() error
}
