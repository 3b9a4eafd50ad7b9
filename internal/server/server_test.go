package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/pipeline"
	"github.com/gridlock-dev/gridlock/pkg/store"
)

const pairSpec = "## Components\n" +
	"1. left\n" +
	"2. right\n" +
	"\n" +
	"## Constraints\n" +
	"- ADJACENT(right, left, east)\n" +
	"\n" +
	"## Component Tiles\n" +
	"\n" +
	"**left**\n" +
	"```\n" +
	"[L]\n" +
	"```\n" +
	"\n" +
	"**right**\n" +
	"```\n" +
	"[R]\n" +
	"```\n"

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	runner := pipeline.NewRunner(nil, nil, nil)
	return New(Config{}, runner, st, nil), st
}

func postSolve(t *testing.T, s *Server, body SolveRequest) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/solve", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestSolveEndpoint(t *testing.T) {
	s, st := newTestServer(t)

	rec := postSolve(t, s, SolveRequest{Spec: pairSpec, Name: "pair"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Solved {
		t.Fatal("scene not solved")
	}
	if resp.ID == "" {
		t.Fatal("missing scene ID")
	}
	if resp.Scene.Grid != "[L][R]" {
		t.Fatalf("grid = %q", resp.Scene.Grid)
	}

	stored, err := st.Get(httptest.NewRequest(http.MethodGet, "/", nil).Context(), resp.ID)
	if err != nil {
		t.Fatalf("stored scene missing: %v", err)
	}
	if stored.Name != "pair" {
		t.Fatalf("stored name = %q", stored.Name)
	}
}

func TestSolveEndpointBadSpec(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postSolve(t, s, SolveRequest{Spec: "not a spec"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code == "" {
		t.Fatal("error response missing code")
	}
}

func TestSolveEndpointMalformedJSON(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/solve", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetScene(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postSolve(t, s, SolveRequest{Spec: pairSpec})
	var solved SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &solved); err != nil {
		t.Fatalf("decode solve response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/scenes/"+solved.ID, nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "[L][R]") {
		t.Fatal("scene body missing grid")
	}
}

func TestGetSceneNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/scenes/nope", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListScenes(t *testing.T) {
	s, _ := newTestServer(t)

	postSolve(t, s, SolveRequest{Spec: pairSpec, Name: "a"})
	postSolve(t, s, SolveRequest{Spec: pairSpec, Name: "b"})

	req := httptest.NewRequest(http.MethodGet, "/v1/scenes", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp["scenes"]) != 2 {
		t.Fatalf("got %d scenes, want 2", len(resp["scenes"]))
	}
}

func TestRenderSceneFormats(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postSolve(t, s, SolveRequest{Spec: pairSpec})
	var solved SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &solved); err != nil {
		t.Fatalf("decode solve response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/scenes/"+solved.ID+"/render", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("text status = %d", rec.Code)
	}
	if rec.Body.String() != "[L][R]" {
		t.Fatalf("text body = %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/scenes/"+solved.ID+"/render?format=dot", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dot status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Fatalf("dot content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "graph G") {
		t.Fatal("dot body missing graph header")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/scenes/"+solved.ID+"/render?format=gif", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad format status = %d, want 400", rec.Code)
	}
}

func TestDeleteScene(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postSolve(t, s, SolveRequest{Spec: pairSpec})
	var solved SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &solved); err != nil {
		t.Fatalf("decode solve response: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/scenes/"+solved.ID, nil)
	rec2 := httptest.NewRecorder()
	s.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/scenes/"+solved.ID, nil)
	rec2 = httptest.NewRecorder()
	s.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec2.Code)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
