package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hazyhaar/xpick/internal/config"
	"github.com/hazyhaar/xpick/locator"
)

func testPick() Pick {
	return Pick{
		ID:      "pick_1",
		PageURL: "https://example.test/",
		Tag:     "button",
		Candidates: []locator.Candidate{
			{Label: "@id", Expression: `//button[@id="save"]`},
			{Label: "absolute", Expression: "/html[1]/body[1]/button[1]"},
		},
		Selected:  1,
		Timestamp: time.Unix(1700000000, 0).UTC(),
	}
}

func TestPick_Expression(t *testing.T) {
	p := testPick()
	if got, ok := p.Expression(); !ok || got != "/html[1]/body[1]/button[1]" {
		t.Errorf("selected 1: got %q, %v", got, ok)
	}
	p.Selected = -1
	if _, ok := p.Expression(); ok {
		t.Error("selected -1: expected miss")
	}
}

func TestStdout(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(&buf)
	if err := s.Send(context.Background(), testPick()); err != nil {
		t.Fatal(err)
	}
	var env struct {
		Type string `json:"type"`
		Data Pick   `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != "pick" || env.Data.ID != "pick_1" || len(env.Data.Candidates) != 2 {
		t.Errorf("envelope: got %+v", env)
	}
}

func TestWebhook_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !bytes.Contains(body, []byte(`"pick_1"`)) || r.Header.Get("X-Pick-ID") != "pick_1" {
			t.Errorf("unexpected request body %s", body)
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	w := NewWebhook(ts.URL, WithWebhookBackoff(time.Millisecond), WithWebhookRetries(3))
	if err := w.Send(context.Background(), testPick()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3", got)
	}
}

func TestWebhook_Exhausted(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	w := NewWebhook(ts.URL, WithWebhookBackoff(time.Millisecond), WithWebhookRetries(2))
	if err := w.Send(context.Background(), testPick()); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3", got)
	}
}

func TestClipboard(t *testing.T) {
	var copied string
	c := NewClipboard(WithClipboardWriter(func(s string) error {
		copied = s
		return nil
	}))
	if err := c.Send(context.Background(), testPick()); err != nil {
		t.Fatal(err)
	}
	if copied != "/html[1]/body[1]/button[1]" {
		t.Errorf("copied: got %q", copied)
	}

	p := testPick()
	p.Selected = 5
	if err := c.Send(context.Background(), p); !errors.Is(err, ErrNoSelection) {
		t.Errorf("out of range: got %v, want ErrNoSelection", err)
	}

	copied = ""
	p.Selected = -1
	if err := c.Send(context.Background(), p); err != nil {
		t.Errorf("no selection: got %v, want nil", err)
	}
	if copied != "" {
		t.Errorf("no selection: copied %q", copied)
	}

	failing := NewClipboard(WithClipboardWriter(func(string) error { return ErrClipboardUnavailable }))
	if err := failing.Send(context.Background(), testPick()); !errors.Is(err, ErrClipboardUnavailable) {
		t.Errorf("unavailable: got %v", err)
	}
}

func TestRouter_FanOutFirstError(t *testing.T) {
	errA := errors.New("a failed")
	var got []string
	r := NewRouter(nil,
		NewCallback(func(_ context.Context, p Pick) error { got = append(got, "a"); return errA }),
		NewCallback(func(_ context.Context, p Pick) error { got = append(got, "b"); return errors.New("b failed") }),
		NewCallback(nil),
	)
	if err := r.Send(context.Background(), testPick()); !errors.Is(err, errA) {
		t.Errorf("error: got %v, want %v", err, errA)
	}
	if len(got) != 2 {
		t.Errorf("delivered to %v, want both", got)
	}
	if err := r.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	r, err := FromConfig(nil, nil)
	if err != nil || r.Len() != 1 {
		t.Fatalf("empty config: got %v, %v", r, err)
	}
	r, err = FromConfig([]config.SinkConfig{
		{Type: "stdout"},
		{Type: "webhook", URL: "http://127.0.0.1:1/hook", Retries: 1},
		{Type: "clipboard"},
	}, nil)
	if err != nil || r.Len() != 3 {
		t.Fatalf("three sinks: got %v, %v", r, err)
	}
	if _, err := FromConfig([]config.SinkConfig{{Type: "webhook"}}, nil); err == nil {
		t.Error("webhook without url: expected error")
	}
	if _, err := FromConfig([]config.SinkConfig{{Type: "nats"}}, nil); err == nil {
		t.Error("unknown type: expected error")
	}
}

func TestEnsureClipboard(t *testing.T) {
	types := func(cfgs []config.SinkConfig) []string {
		var out []string
		for _, c := range cfgs {
			out = append(out, c.Type)
		}
		return out
	}
	cases := []struct {
		in   []config.SinkConfig
		want []string
	}{
		{nil, []string{"stdout", "clipboard"}},
		{[]config.SinkConfig{{Type: "webhook", URL: "http://x"}}, []string{"webhook", "clipboard"}},
		{[]config.SinkConfig{{Type: "clipboard"}, {Type: "stdout"}}, []string{"clipboard", "stdout"}},
	}
	for _, c := range cases {
		if got := types(EnsureClipboard(c.in)); !cmp.Equal(got, c.want) {
			t.Errorf("EnsureClipboard(%v): got %v, want %v", types(c.in), got, c.want)
		}
	}
}
