package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/cache"
	"github.com/matzehuels/linkdrift/pkg/config"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/observability"
	"github.com/matzehuels/linkdrift/pkg/pipeline"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/session"
)

const wideScene = `{
	"viewport": {"width": 1440, "height": 900},
	"column": {"left": 360, "top": 0, "width": 720, "height": 900},
	"links": [
		{"label": "Home", "href": "/"},
		{"label": "Writing", "href": "/writing"},
		{"label": "GitHub", "href": "https://github.com/example", "external": true}
	]
}`

const narrowScene = `{
	"viewport": {"width": 480, "height": 800},
	"column": {"left": 0, "top": 0, "width": 480, "height": 800},
	"links": [
		{"label": "Home", "href": "/"},
		{"label": "Writing", "href": "/writing"}
	]
}`

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	t.Cleanup(observability.Reset)

	cfg := config.Default()
	cfg.Store.Backend = cache.BackendMemory
	cfg.Seed.Policy = "random"
	if mutate != nil {
		mutate(&cfg)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	return New(runner, cfg, logger)
}

func do(t *testing.T, s *Server, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeLayout(t *testing.T, rec *httptest.ResponseRecorder) *scene.Layout {
	t.Helper()
	l, err := scene.ReadJSON(rec.Body)
	if err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	return l
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] == "" {
		t.Errorf("missing version in %v", body)
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name  string
		scene string
		mode  mode.Mode
		links int
	}{
		{"wide", wideScene, mode.Wander, 3},
		{"narrow", narrowScene, mode.Rail, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := do(t, s, http.MethodPost, "/v1/layout", tt.scene, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			l := decodeLayout(t, rec)
			if l.Mode != tt.mode {
				t.Errorf("mode = %v, want %v", l.Mode, tt.mode)
			}
			if len(l.Links) != tt.links {
				t.Errorf("links = %d, want %d", len(l.Links), tt.links)
			}
			id := rec.Header().Get(SessionHeader)
			if _, err := session.ParseID(id); err != nil {
				t.Errorf("session header %q is not a uuid", id)
			}
			if l.SessionID != id {
				t.Errorf("layout session = %q, header = %q", l.SessionID, id)
			}
		})
	}
}

func TestSessionKeepsSeeds(t *testing.T) {
	s := newTestServer(t, nil)

	first := do(t, s, http.MethodPost, "/v1/layout", wideScene, nil)
	id := first.Header().Get(SessionHeader)
	a := decodeLayout(t, first)

	second := do(t, s, http.MethodPost, "/v1/layout", wideScene, map[string]string{SessionHeader: id})
	if got := second.Header().Get(SessionHeader); got != id {
		t.Fatalf("session not echoed: got %q, want %q", got, id)
	}
	b := decodeLayout(t, second)

	for i := range a.Links {
		if a.Links[i].Seed != b.Links[i].Seed {
			t.Errorf("link %s seed changed within session: %+v -> %+v", a.Links[i].Key, a.Links[i].Seed, b.Links[i].Seed)
		}
	}

	other := do(t, s, http.MethodPost, "/v1/layout", wideScene, nil)
	if other.Header().Get(SessionHeader) == id {
		t.Error("request without header reused an existing session")
	}
}

func TestUnknownSessionStartsNew(t *testing.T) {
	s := newTestServer(t, nil)
	stale := session.New(0).ID
	rec := do(t, s, http.MethodPost, "/v1/layout", wideScene, map[string]string{SessionHeader: stale})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(SessionHeader); got == stale || got == "" {
		t.Errorf("session header = %q, want a fresh id", got)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format      string
		scene       string
		contentType string
		contains    string
	}{
		{"svg", wideScene, "image/svg+xml", "<svg"},
		{"json", wideScene, "application/json", `"links"`},
		{"dot", wideScene, "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"text", narrowScene, "text/plain; charset=utf-8", "Home"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := do(t, s, http.MethodPost, "/v1/render?format="+tt.format, tt.scene, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		header map[string]string
		status int
		code   string
	}{
		{"bad format", "/v1/render?format=png", wideScene, nil, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", "/v1/layout", `{"viewport":{"width":800,"height":600},"links":[],"extra":1}`, nil, http.StatusBadRequest, "INVALID_SCENE"},
		{"bad viewport", "/v1/layout", `{"viewport":{"width":0,"height":600},"links":[]}`, nil, http.StatusBadRequest, "INVALID_VIEWPORT"},
		{"bad session", "/v1/layout", wideScene, map[string]string{SessionHeader: "nope"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad policy", "/v1/layout", `{"viewport":{"width":800,"height":600},"links":[],"options":{"policy":"chaos"}}`, nil, http.StatusBadRequest, "INVALID_POLICY"},
		{"bad cols", "/v1/render?format=text&cols=x", wideScene, nil, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			rec := do(t, s, http.MethodPost, tt.target, tt.body, tt.header)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 32 })
	rec := do(t, s, http.MethodPost, "/v1/layout", wideScene, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodPost, "/v1/layout", wideScene, nil)

	rec := do(t, s, http.MethodGet, "/v1/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats statsResponse
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Recomputes == 0 {
		t.Error("no recomputes counted")
	}
	if stats.Requests == 0 {
		t.Error("no requests counted")
	}
	if stats.CacheSets == 0 {
		t.Error("no seed writes counted")
	}
	if stats.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", stats.Sessions)
	}
}
