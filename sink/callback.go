// CLAUDE:SUMMARY In-process callback sink delivering picks via Go function calls with zero serialization.
package sink

import "context"

// PickFunc is called for each pick.
type PickFunc func(ctx context.Context, pick Pick) error

// Callback delivers picks via a Go function call, for hosts that embed the
// picker in the same binary.
type Callback struct {
	onPick PickFunc
}

// NewCallback creates a Callback sink. fn may be nil.
func NewCallback(fn PickFunc) *Callback {
	return &Callback{onPick: fn}
}

func (c *Callback) Send(ctx context.Context, pick Pick) error {
	if c.onPick != nil {
		return c.onPick(ctx, pick)
	}
	return nil
}

func (c *Callback) Close() error { return nil }
