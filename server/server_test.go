package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/xpick/idgen"
	"github.com/hazyhaar/xpick/kit"
)

const doc = `<html><body><button id="submit-btn">Save</button></body></html>`

var testMCPImpl = &mcp.Implementation{Name: "xpick-test", Version: "0.1.0"}

func newService() *Service {
	return New(nil, WithIDs(idgen.Sequence("req_")))
}

func TestCandidates(t *testing.T) {
	resp, err := newService().Candidates(context.Background(), &Request{HTML: doc, Target: "//button"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Tag != "button" || resp.Mode != "exact" {
		t.Errorf("response: got tag %q mode %q", resp.Tag, resp.Mode)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Expression != `//button[@id="submit-btn"]` {
		t.Errorf("candidates: got %v", resp.Candidates)
	}
}

func TestCandidates_BadInput(t *testing.T) {
	s := newService()
	for _, req := range []*Request{
		{Target: "//button"},
		{HTML: doc},
		{HTML: doc, Target: "//table"},
		{HTML: doc, Target: "//["},
	} {
		if _, err := s.Candidates(context.Background(), req); !errors.Is(err, kit.ErrBadRequest) {
			t.Errorf("%+v: got %v, want ErrBadRequest", req, err)
		}
	}
}

func TestCandidates_Fragment(t *testing.T) {
	resp, err := newService().Candidates(context.Background(), &Request{
		HTML:     `<p>intro</p><div class="card"><span id="x">Hi there</span></div>`,
		Target:   "//span",
		Fragment: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].Expression != "/div[1]/span[1]" {
		t.Errorf("candidates: got %v", resp.Candidates)
	}
}

func TestCandidates_TextTarget(t *testing.T) {
	resp, err := newService().Candidates(context.Background(), &Request{HTML: doc, Target: "//button/text()"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Candidates == nil || len(resp.Candidates) != 0 {
		t.Errorf("candidates: got %#v, want empty non-nil", resp.Candidates)
	}
}

func TestHTTP(t *testing.T) {
	r := chi.NewRouter()
	newService().RegisterHTTP(r)
	ts := httptest.NewServer(r)
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/v1/candidates", "application/json",
		strings.NewReader(`{"html":"<button id=\"go\">Go on</button>","target":"//button"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", res.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RequestID != "req_1" {
		t.Errorf("request id: got %q", out.RequestID)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Label != "@id" {
		t.Errorf("candidates: got %v", out.Candidates)
	}

	res2, err := http.Post(ts.URL+"/api/v1/candidates", "application/json",
		strings.NewReader(`{"html":"<p>x</p>","target":"//table"}`))
	if err != nil {
		t.Fatal(err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusBadRequest {
		t.Errorf("missing target: status got %d, want 400", res2.StatusCode)
	}

	res3, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	res3.Body.Close()
	if res3.StatusCode != http.StatusOK {
		t.Errorf("health: status got %d", res3.StatusCode)
	}
}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	newService().RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

func TestMCP_Candidates(t *testing.T) {
	session := mcpSession(t)
	res := mcpCallTool(t, session, "xpick_candidates", map[string]any{"html": doc, "target": "//button"})
	if res.IsError {
		t.Fatalf("tool error: %v", res.Content)
	}
	var out Response
	if err := json.Unmarshal([]byte(res.Content[0].(*mcp.TextContent).Text), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Expression != `//button[@id="submit-btn"]` {
		t.Errorf("candidates: got %v", out.Candidates)
	}
}

func TestMCP_Menu(t *testing.T) {
	session := mcpSession(t)
	res := mcpCallTool(t, session, "xpick_menu", map[string]any{"html": doc, "target": "//button"})
	if res.IsError {
		t.Fatalf("tool error: %v", res.Content)
	}
	var out MenuResponse
	if err := json.Unmarshal([]byte(res.Content[0].(*mcp.TextContent).Text), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Menu.ID != "copy-xpath-root" || len(out.Menu.Items) == 0 || out.Menu.Items[0].ID != "xpath-0" {
		t.Errorf("menu: got %+v", out.Menu)
	}
}

func TestMCP_NoMatch(t *testing.T) {
	session := mcpSession(t)
	res := mcpCallTool(t, session, "xpick_candidates", map[string]any{"html": doc, "target": "//table"})
	if !res.IsError {
		t.Error("expected tool error for a target matching nothing")
	}
}

func TestHTTP_Middleware(t *testing.T) {
	r := chi.NewRouter()
	newService().RegisterHTTP(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health: status got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("nosniff header: got %q", got)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "req_1" {
		t.Errorf("generated request id: got %q", got)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/candidates",
		strings.NewReader(`{"html":"<p id=\"a\">hello</p>","target":"//p"}`))
	req.Header.Set("X-Request-ID", "caller-7")
	r.ServeHTTP(rec, req)
	var out Response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.RequestID != "caller-7" || rec.Header().Get("X-Request-ID") != "caller-7" {
		t.Errorf("caller request id: body %q header %q", out.RequestID, rec.Header().Get("X-Request-ID"))
	}
}
