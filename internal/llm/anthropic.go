package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const anthropicVersion = "2023-06-01"

// anthropicClient implements LLMClient over the Anthropic Messages API.
type anthropicClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewAnthropicClient creates an LLMClient backed by the Messages API.
// cfg.Endpoint is the API base URL without the /v1 suffix.
func NewAnthropicClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Provider = ProviderAnthropic
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &anthropicClient{
		cfg:      cfg,
		http:     newHTTPClient(),
		observer: observer,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Model   string             `json:"model"`
	Content []anthropicContent `json:"content"`
}

func (c *anthropicClient) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
}

func (c *anthropicClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return runWithRetry(ctx, c.cfg, c.observer, req, func(ctx context.Context, p callParams) (string, string, error) {
		maxTokens := p.maxTokens
		if maxTokens <= 0 {
			maxTokens = 1024
		}
		body := anthropicRequest{
			Model:       c.cfg.Model,
			MaxTokens:   maxTokens,
			System:      req.SystemPrompt,
			Temperature: p.temperature,
			Messages:    []anthropicMessage{{Role: "user", Content: req.UserPrompt}},
		}
		var resp anthropicResponse
		if err := postJSON(ctx, c.http, c.cfg.Endpoint+"/v1/messages", c.headers(), body, &resp); err != nil {
			return "", "", err
		}
		var b strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		if b.Len() == 0 {
			return "", "", fmt.Errorf("%w: no text content in response", ErrInvalidOutput)
		}
		return b.String(), resp.Model, nil
	})
}

func (c *anthropicClient) Available(ctx context.Context) bool {
	if c.cfg.APIKey == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/v1/models", nil)
	if err != nil {
		return false
	}
	for k, v := range c.headers() {
		req.Header.Set(k, v)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
