// CLAUDE:SUMMARY Copies the selected locator expression to the system clipboard via atotto/clipboard.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility exists on
// this system (e.g. a headless Linux box without xclip/xsel/wl-copy).
var ErrClipboardUnavailable = errors.New("sink: clipboard unavailable")

// ErrNoSelection is returned when a pick selects a candidate it does not
// carry.
var ErrNoSelection = errors.New("sink: no candidate selected")

// Clipboard writes the selected expression to the system clipboard.
type Clipboard struct {
	write func(string) error
}

// ClipboardOption configures a Clipboard sink.
type ClipboardOption func(*Clipboard)

// WithClipboardWriter replaces the system clipboard, e.g. in tests.
func WithClipboardWriter(fn func(string) error) ClipboardOption {
	return func(c *Clipboard) { c.write = fn }
}

// NewClipboard creates a Clipboard sink.
func NewClipboard(opts ...ClipboardOption) *Clipboard {
	c := &Clipboard{write: systemClipboard}
	for _, o := range opts {
		o(c)
	}
	return c
}

func systemClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// Send copies the selected expression. A pick without a selection
// (Selected < 0) is skipped.
func (c *Clipboard) Send(_ context.Context, pick Pick) error {
	if pick.Selected < 0 {
		return nil
	}
	expr, ok := pick.Expression()
	if !ok {
		return fmt.Errorf("clipboard: pick %s: %w", pick.ID, ErrNoSelection)
	}
	if err := c.write(expr); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

func (c *Clipboard) Close() error { return nil }
