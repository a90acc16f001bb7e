package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the provider is reachable.
	Available(ctx context.Context) bool
}

// NewClient builds the LLMClient named by cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: llm disabled", ErrProviderUnavailable)
	}
	switch cfg.Provider {
	case "", ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: anthropic api key not set", ErrProviderUnavailable)
		}
		return NewAnthropicClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrProviderUnavailable, cfg.Provider)
	}
}

// callParams are the per-call settings resolved from the task config.
type callParams struct {
	temperature float64
	maxTokens   int
}

// attemptFunc performs one round trip and returns text and model.
type attemptFunc func(ctx context.Context, p callParams) (text, model string, err error)

// runWithRetry applies task defaults, the task timeout and the retry budget
// around attempt, and reports the outcome to observer.
func runWithRetry(ctx context.Context, cfg LLMConfig, observer Observer, req GenerateRequest, attempt attemptFunc) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := cfg.Tasks[req.Task]
	p := callParams{temperature: taskCfg.Temperature, maxTokens: taskCfg.MaxTokens}
	if req.Temperature != nil {
		p.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.maxTokens = *req.MaxTokens
	}

	timeout := time.Duration(cfg.TaskTimeout(req.Task)) * time.Millisecond

	var lastErr error
	timedOut := false
	attempts := 1 + cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		// Each attempt gets the full task timeout.
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, model, err := attempt(attemptCtx, p)
		timedOut = errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
		cancel()
		if err == nil {
			latency := time.Since(start).Milliseconds()
			observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Provider:  cfg.Provider,
				Model:     cfg.Model,
				LatencyMs: latency,
				Success:   true,
			})
			if model == "" {
				model = cfg.Model
			}
			return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
		}
		lastErr = err

		// Don't retry once the caller has given up or the provider said no.
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	var outErr error
	switch {
	case ctx.Err() != nil || timedOut:
		outErr = ErrTimeout
	case !retryable(lastErr):
		outErr = fmt.Errorf("%w: %w", ErrProviderRejected, lastErr)
	case isConnectionError(lastErr) && cfg.Provider == ProviderAnthropic:
		outErr = fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
	case isConnectionError(lastErr):
		outErr = ErrOllamaUnavailable
	default:
		outErr = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(outErr),
	})
	return nil, outErr
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		},
	}
}

// postJSON sends body to url and decodes a 200 response into out.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return &StatusError{Code: httpResp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable), errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrProviderRejected):
		return "REJECTED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
