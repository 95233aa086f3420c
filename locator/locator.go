// CLAUDE:SUMMARY Candidate engine: runs the ordered strategy pipeline, validates each candidate, deduplicates by expression.
// Package locator synthesizes ranked XPath 1.0 locators for a DOM element.
//
// Generate runs an ordered pipeline of strategies over one element, checks
// every candidate against the live tree, and returns the survivors in
// priority order with duplicate expressions removed. The result is computed
// fresh on each call; nothing is cached between calls.
package locator

import (
	"log/slog"

	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/locator/internal/classify"
	"github.com/hazyhaar/xpick/locator/internal/strategy"
	"github.com/hazyhaar/xpick/locator/internal/validate"
)

// Candidate is a labeled locator expression. Label names the strategy that
// produced it; Expression is the XPath.
type Candidate = strategy.Candidate

// Strategy is one heuristic of the pipeline.
type Strategy = strategy.Strategy

// Mode selects how strictly a candidate must resolve to the target.
type Mode = validate.Mode

const (
	ModeExact    = validate.ModeExact
	ModeContains = validate.ModeContains
	ModeAny      = validate.ModeAny
)

// Engine is a configured candidate pipeline. It holds no mutable state and
// is safe for concurrent use.
type Engine struct {
	strategies []Strategy
	validator  *validate.Validator
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for dropped-candidate diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStrategies replaces the pipeline. Order is priority order, except
// that positional strategies always run after the others. When none of s is
// positional the absolute fallback is appended.
func WithStrategies(s ...Strategy) Option {
	return func(e *Engine) { e.strategies = s }
}

// New builds an Engine from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.ApplyDefaults()

	mode, err := validate.ParseMode(c.Validation)
	if err != nil {
		mode = validate.ModeExact
	}

	e := &Engine{
		strategies: strategy.Default(strategyOptions(c)),
		validator:  validate.New(mode),
	}
	for _, o := range opts {
		o(e)
	}
	e.strategies = fallbackLast(e.strategies)
	if err != nil {
		e.log().Warn("locator: unknown validation mode, using exact", "mode", c.Validation)
	}
	return e
}

// fallbackLast moves positional strategies behind the others, keeping
// relative order, and appends strategy.Absolute when there is none.
func fallbackLast(list []Strategy) []Strategy {
	out := make([]Strategy, 0, len(list)+1)
	var tail []Strategy
	for _, s := range list {
		if strategy.IsPositional(s) {
			tail = append(tail, s)
		} else {
			out = append(out, s)
		}
	}
	if len(tail) == 0 {
		tail = append(tail, strategy.Absolute{})
	}
	return append(out, tail...)
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

func strategyOptions(c Config) strategy.Options {
	rules := classify.DefaultRules()
	rules.MinLength = c.Classes.MinLength
	if len(c.Classes.Deny) > 0 {
		rules.Deny = c.Classes.Deny
	}
	if c.Classes.RejectDigits != nil {
		rules.RejectDigits = *c.Classes.RejectDigits
	}
	return strategy.Options{
		Attributes:      c.Attributes,
		InputAttributes: c.InputAttributes,
		MinTextLen:      c.MinTextLen,
		MaxTextLen:      c.MaxTextLen,
		InlineTags:      c.InlineTags,
		MaxWrappers:     c.MaxWrappers,
		Classes:         classify.New(rules),
	}
}

// Mode returns the validation mode in effect.
func (e *Engine) Mode() Mode { return e.validator.Mode() }

// Generate returns the validated, deduplicated candidates for el, most
// robust first. A nil or unreadable element yields an empty list. A detached
// element yields only positional candidates built from its reachable
// ancestry.
func (e *Engine) Generate(el dom.Node) []Candidate {
	if !dom.Readable(el) {
		return nil
	}
	target := validate.NewTarget(el)
	attached := target.Attached()

	var out []Candidate
	seen := make(map[string]bool)
	for _, s := range e.strategies {
		positional := strategy.IsPositional(s)
		if !attached && !positional {
			continue
		}
		for _, c := range s.Generate(el) {
			if _, done := seen[c.Expression]; done {
				continue
			}
			err := e.validator.Check(target, c.Expression, positional)
			seen[c.Expression] = err == nil
			if err != nil {
				e.log().Debug("locator: candidate dropped",
					"strategy", s.Name(), "label", c.Label, "xpath", c.Expression, "reason", err)
				continue
			}
			out = append(out, c)
		}
	}
	if !attached {
		e.log().Debug("locator: element detached, positional candidates only",
			"tag", el.Tag(), "candidates", len(out))
	}
	return out
}

// ExpressionAt regenerates the candidates for el and returns the idx-th
// expression. It serves the second invocation of a pick flow, when a
// selected menu entry is resolved against the current tree.
func (e *Engine) ExpressionAt(el dom.Node, idx int) (string, bool) {
	list := e.Generate(el)
	if idx < 0 || idx >= len(list) {
		return "", false
	}
	return list[idx].Expression, true
}

// Resolve evaluates expr from el's tree and returns every selected
// element. Evaluation problems yield an empty result.
func (e *Engine) Resolve(el dom.Node, expr string) []dom.Node {
	if !dom.Readable(el) {
		return nil
	}
	nodes, err := e.validator.Select(validate.NewTarget(el), expr, 0)
	if err != nil {
		return nil
	}
	var out []dom.Node
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

var defaultEngine = New(nil)

// Generate runs the default engine on el.
func Generate(el dom.Node) []Candidate {
	return defaultEngine.Generate(el)
}
