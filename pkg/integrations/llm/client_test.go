package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/cache"
	"github.com/gridlock-dev/gridlock/pkg/errors"
)

func completionServer(t *testing.T, content string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: content}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateSpec(t *testing.T) {
	calls := 0
	srv := completionServer(t, "## Components\n...", &calls)
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	spec, err := c.GenerateSpec(context.Background(), "Castle")
	if err != nil {
		t.Fatalf("GenerateSpec error: %v", err)
	}
	if !strings.HasPrefix(spec, "## Components") {
		t.Fatalf("spec = %q", spec)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestGenerateSpecUsesCache(t *testing.T) {
	calls := 0
	srv := completionServer(t, "## Components\ncached", &calls)
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Cache: fc})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := c.GenerateSpec(context.Background(), "dungeon"); err != nil {
			t.Fatalf("GenerateSpec %d error: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (second request served from cache)", calls)
	}
}

func TestGenerateSpecClientError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"bad model"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	_, err = c.GenerateSpec(context.Background(), "castle")
	if errors.GetCode(err) != errors.ErrCodeNetwork {
		t.Fatalf("err = %v, want network error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (4xx must not retry)", calls)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestGenerateSpecEmptyStructure(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if _, err := c.GenerateSpec(context.Background(), "  "); errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("err = %v, want invalid input", err)
	}
}
