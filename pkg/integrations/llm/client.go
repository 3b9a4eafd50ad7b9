// Package llm generates scene specifications through an OpenAI-compatible
// chat completions API. The model designs components, constraints, and tiles
// in the DSL format; assembling them stays with the solver.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gridlock-dev/gridlock/pkg/cache"
	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/httputil"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4"
	httpTimeout    = 60 * time.Second
)

// Structures are the built-in structure types offered by the CLI menu. Any
// free-form string works; these are just the curated defaults.
var Structures = []string{"castle", "village", "dungeon", "cathedral", "tower"}

// Config holds connection settings for the completions API.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// BaseURL overrides the API endpoint, for proxies and compatible
	// providers. Defaults to the OpenAI endpoint.
	BaseURL string

	// Model selects the completion model.
	Model string

	// Cache stores generated specs so repeated requests for the same
	// structure type do not burn tokens. Nil disables caching.
	Cache cache.Cache
}

// Client calls the chat completions API to generate DSL specs.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	cache   cache.Cache
	keyer   cache.Keyer
}

// NewClient creates a Client. The API key is required; everything else has
// defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		cache:   cfg.Cache,
		keyer:   cache.NewDefaultKeyer(),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateSpec asks the model for a complete DSL spec of the given structure
// type. Results are cached by structure and prompt hash; a prompt change
// invalidates old entries automatically.
func (c *Client) GenerateSpec(ctx context.Context, structure string) (string, error) {
	structure = strings.TrimSpace(strings.ToLower(structure))
	if structure == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "structure type is empty")
	}

	sys := systemPrompt(structure)
	key := c.keyer.GenerateKey(structure, cache.Hash([]byte(sys)))
	if data, hit, _ := c.cache.Get(ctx, key); hit {
		return string(data), nil
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: sys},
			{Role: "user", Content: userPrompt(structure)},
		},
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal request")
	}

	var spec string
	err = httputil.RetryWithBackoff(ctx, func() error {
		var reqErr error
		spec, reqErr = c.complete(ctx, body)
		return reqErr
	})
	if err != nil {
		return "", err
	}

	_ = c.cache.Set(ctx, key, []byte(spec), cache.TTLGenerated)
	return spec, nil
}

func (c *Client) complete(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "call completions API"),
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "read response"),
		}
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "API returned %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeNetwork,
			"API returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode response")
	}
	if parsed.Error != nil {
		return "", errors.New(errors.ErrCodeNetwork, "API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "response contains no completion")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
