package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/exprtex/exprtex/pkg/archive"
	"github.com/exprtex/exprtex/pkg/observability"
	"github.com/exprtex/exprtex/pkg/pipeline"
)

func newTestServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(Config{
		Runner:  pipeline.NewRunner(nil, nil, logger),
		Archive: archive.NewMemoryArchive(),
		Logger:  logger,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/healthz", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status field = %q, want "ok"`, body["status"])
	}
	if body["version"] == "" {
		t.Error("version field should not be empty")
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/healthz", "")

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header should be set")
	}
}

func TestRenderTeX(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render",
		`{"expressions": ["x**2"], "format": "tex"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	var resp renderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if resp.Format != pipeline.FormatTeX {
		t.Errorf("format = %q, want tex", resp.Format)
	}
	if len(resp.Markup) != 1 || resp.Markup[0] != "x^{2}" {
		t.Errorf("markup = %v", resp.Markup)
	}
	if !strings.Contains(resp.Document, `\documentclass`) {
		t.Error("document should be a standalone document")
	}
	if len(resp.DocHash) != 64 {
		t.Errorf("doc_hash length = %d, want 64", len(resp.DocHash))
	}
	if len(resp.Artifact) != 0 {
		t.Error("tex render should not return an artifact")
	}
	if len(resp.Digests) != 1 || resp.Digests[0] != archive.Digest("x**2") {
		t.Errorf("digests = %v", resp.Digests)
	}

	// The rendered formula is now fetchable by digest
	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/formulas/"+resp.Digests[0], "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	var f archive.Formula
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("decode formula: %v", err)
	}
	if f.Source != "x**2" || f.Markup != "x^{2}" {
		t.Errorf("formula = %+v", f)
	}
}

func TestRenderInvalidExpression(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render",
		`{"expressions": ["x + 1", "1 +"], "format": "tex"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(resp.Failures))
	}
	if resp.Failures[0].Index != 1 || resp.Failures[0].Source != "1 +" {
		t.Errorf("failure = %+v", resp.Failures[0])
	}
}

func TestRenderBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"expressions": [`},
		{"no expressions", `{}`},
		{"bad format", `{"expressions": ["x"], "format": "svg"}`},
		{"bad border", `{"expressions": ["x"], "format": "tex", "border": "wide"}`},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestGetFormulaInvalidDigest(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/formulas/not-a-digest", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body)
	}
}

func TestGetFormulaNotFound(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/formulas/"+strings.Repeat("a", 64), "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body)
	}
}

func TestListFormulas(t *testing.T) {
	s := newTestServer()

	for _, src := range []string{"x", "y", "z"} {
		rec := doJSON(t, s.Handler(), http.MethodPost, "/v1/render",
			`{"expressions": ["`+src+`"], "format": "tex"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("render %q status = %d", src, rec.Code)
		}
	}

	rec := doJSON(t, s.Handler(), http.MethodGet, "/v1/formulas?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}
	var body map[string][]archive.Formula
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body["formulas"]) != 2 {
		t.Errorf("got %d formulas, want 2", len(body["formulas"]))
	}

	rec = doJSON(t, s.Handler(), http.MethodGet, "/v1/formulas?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

// testServerHooks records request and response events.
type testServerHooks struct {
	mu        sync.Mutex
	requests  int
	responses int
	status    int
}

func (h *testServerHooks) OnRequest(ctx context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *testServerHooks) OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses++
	h.status = statusCode
}

func TestServerHooksFire(t *testing.T) {
	hooks := &testServerHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	s := newTestServer()
	doJSON(t, s.Handler(), http.MethodGet, "/v1/healthz", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 || hooks.responses != 1 {
		t.Errorf("hooks fired %d/%d times, want 1/1", hooks.requests, hooks.responses)
	}
	if hooks.status != http.StatusOK {
		t.Errorf("recorded status = %d, want 200", hooks.status)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(Config{
		Addr:   "127.0.0.1:0",
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("ListenAndServe returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
