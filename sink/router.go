package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/xpick/internal/config"
	"github.com/hazyhaar/xpick/internal/safe"
)

// Router fans out picks to all configured sinks. One sink error does not
// block the others: errors are logged and the first encountered is
// returned.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter creates a fan-out router delivering to all sinks.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

// Len returns the number of routed sinks.
func (r *Router) Len() int { return len(r.sinks) }

func (r *Router) Send(ctx context.Context, pick Pick) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Send(ctx, pick); err != nil {
			r.logger.Warn("sink: send pick failed", "pick", pick.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// FromConfig builds a Router from sink definitions. An empty list yields a
// single stdout sink.
func FromConfig(cfgs []config.SinkConfig, logger *slog.Logger) (*Router, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfgs) == 0 {
		return NewRouter(logger, NewStdout(nil)), nil
	}
	sinks := make([]Sink, 0, len(cfgs))
	for i, c := range cfgs {
		switch c.Type {
		case "stdout":
			sinks = append(sinks, NewStdout(nil))
		case "webhook":
			if err := safe.ValidateURL(c.URL, safe.WebSchemes...); err != nil {
				return nil, fmt.Errorf("sink: config %d: webhook: %w", i, err)
			}
			sinks = append(sinks, NewWebhook(c.URL,
				WithWebhookRetries(c.Retries), WithWebhookLogger(logger)))
		case "clipboard":
			sinks = append(sinks, NewClipboard())
		default:
			return nil, fmt.Errorf("sink: config %d: unknown type %q", i, c.Type)
		}
	}
	return NewRouter(logger, sinks...), nil
}

// EnsureClipboard returns cfgs with a clipboard sink added when none is
// configured. An empty list keeps its stdout default.
func EnsureClipboard(cfgs []config.SinkConfig) []config.SinkConfig {
	for _, c := range cfgs {
		if c.Type == "clipboard" {
			return cfgs
		}
	}
	out := make([]config.SinkConfig, 0, len(cfgs)+2)
	if len(cfgs) == 0 {
		out = append(out, config.SinkConfig{Type: "stdout"})
	}
	out = append(out, cfgs...)
	return append(out, config.SinkConfig{Type: "clipboard"})
}
