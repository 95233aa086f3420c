// CLAUDE:SUMMARY MCP tools and chi HTTP routes exposing candidate generation and menu building over parsed HTML.
// Package server exposes the locator engine to other processes: MCP tools
// for agents and a small JSON API on chi.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/xpick/dom"
	"github.com/hazyhaar/xpick/dom/htmldom"
	"github.com/hazyhaar/xpick/idgen"
	"github.com/hazyhaar/xpick/kit"
	"github.com/hazyhaar/xpick/locator"
	"github.com/hazyhaar/xpick/menu"
)

// DefaultMaxBody caps HTTP request bodies.
const DefaultMaxBody = 8 << 20

// Request names an element inside an HTML document.
type Request struct {
	HTML string `json:"html"`
	// Target is an XPath selecting the element; the first match is used.
	Target string `json:"target"`
	// Fragment parses HTML as a detached fragment instead of a document.
	Fragment bool `json:"fragment,omitempty"`
}

// Response is the validated candidate list for the target.
type Response struct {
	RequestID  string              `json:"request_id,omitempty"`
	Tag        string              `json:"tag"`
	Mode       locator.Mode        `json:"mode"`
	Candidates []locator.Candidate `json:"candidates"`
}

// MenuResponse carries the context menu built from the candidate list.
type MenuResponse struct {
	RequestID string    `json:"request_id,omitempty"`
	Menu      menu.Menu `json:"menu"`
}

// Service serves one engine.
type Service struct {
	engine  *locator.Engine
	logger  *slog.Logger
	ids     idgen.Generator
	maxBody int64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDs sets the request ID generator.
func WithIDs(gen idgen.Generator) Option {
	return func(s *Service) { s.ids = gen }
}

// WithMaxBody caps HTTP request bodies at n bytes.
func WithMaxBody(n int64) Option {
	return func(s *Service) { s.maxBody = n }
}

// New creates a Service. A nil engine uses the default configuration.
func New(engine *locator.Engine, opts ...Option) *Service {
	s := &Service{
		engine:  engine,
		logger:  slog.Default(),
		ids:     idgen.Request,
		maxBody: DefaultMaxBody,
	}
	for _, o := range opts {
		o(s)
	}
	if s.engine == nil {
		s.engine = locator.New(nil, locator.WithLogger(s.logger))
	}
	return s
}

// Candidates parses req.HTML, selects the target and generates its
// candidates. Input problems wrap kit.ErrBadRequest.
func (s *Service) Candidates(ctx context.Context, req *Request) (*Response, error) {
	el, err := s.target(req)
	if err != nil {
		return nil, err
	}
	cands := s.engine.Generate(el)
	if cands == nil {
		cands = []locator.Candidate{}
	}
	return &Response{
		RequestID:  kit.GetRequestID(ctx),
		Tag:        el.Tag(),
		Mode:       s.engine.Mode(),
		Candidates: cands,
	}, nil
}

// Menu is Candidates rendered as a context menu.
func (s *Service) Menu(ctx context.Context, req *Request) (*MenuResponse, error) {
	resp, err := s.Candidates(ctx, req)
	if err != nil {
		return nil, err
	}
	return &MenuResponse{RequestID: resp.RequestID, Menu: menu.Build(resp.Candidates)}, nil
}

func (s *Service) target(req *Request) (dom.Node, error) {
	if req.HTML == "" {
		return nil, fmt.Errorf("server: html is required: %w", kit.ErrBadRequest)
	}
	if req.Target == "" {
		return nil, fmt.Errorf("server: target is required: %w", kit.ErrBadRequest)
	}

	if req.Fragment {
		nodes, err := htmldom.ParseFragment(req.HTML)
		if err != nil {
			return nil, fmt.Errorf("server: %w: %w", kit.ErrBadRequest, err)
		}
		for _, n := range nodes {
			if el, err := htmldom.Query(n, req.Target); err == nil {
				return el, nil
			} else if !errors.Is(err, htmldom.ErrNoMatch) {
				return nil, fmt.Errorf("server: %w: %w", kit.ErrBadRequest, err)
			}
		}
		return nil, fmt.Errorf("server: target %q: %w: %w", req.Target, kit.ErrBadRequest, htmldom.ErrNoMatch)
	}

	doc, err := htmldom.ParseString(req.HTML)
	if err != nil {
		return nil, fmt.Errorf("server: %w: %w", kit.ErrBadRequest, err)
	}
	el, err := htmldom.Query(doc, req.Target)
	if err != nil {
		return nil, fmt.Errorf("server: %w: %w", kit.ErrBadRequest, err)
	}
	return el, nil
}

func (s *Service) endpoint(op string, fn kit.Endpoint) kit.Endpoint {
	return kit.Chain(kit.WithRequestIDs(s.ids), kit.Logging(s.logger, op))(fn)
}

func (s *Service) candidatesEndpoint() kit.Endpoint {
	return s.endpoint("candidates", func(ctx context.Context, req any) (any, error) {
		return s.Candidates(ctx, req.(*Request))
	})
}

func (s *Service) menuEndpoint() kit.Endpoint {
	return s.endpoint("menu", func(ctx context.Context, req any) (any, error) {
		return s.Menu(ctx, req.(*Request))
	})
}

// RegisterHTTP mounts the JSON API on r.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(SecurityHeaders, RequestLog(s.logger, s.ids))
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			kit.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/api/v1/candidates", kit.HTTPHandler[Request](s.candidatesEndpoint(), s.maxBody))
		r.Post("/api/v1/menu", kit.HTTPHandler[Request](s.menuEndpoint(), s.maxBody))
	})
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

var requestSchema = inputSchema(map[string]any{
	"html":     map[string]any{"type": "string", "description": "HTML document (or fragment) to search"},
	"target":   map[string]any{"type": "string", "description": "XPath selecting the element to describe; the first match is used"},
	"fragment": map[string]any{"type": "boolean", "description": "Parse html as a detached fragment"},
}, []string{"html", "target"})

// RegisterMCP registers the xpick tools on srv.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "xpick_candidates",
		Description: "Generate validated XPath locators for one element, most robust first.",
		InputSchema: requestSchema,
	}, s.candidatesEndpoint(), kit.DecodeJSON[Request]())

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "xpick_menu",
		Description: "Build the Copy XPath context menu for one element.",
		InputSchema: requestSchema,
	}, s.menuEndpoint(), kit.DecodeJSON[Request]())
}
