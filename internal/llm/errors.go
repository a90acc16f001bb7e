package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrOllamaUnavailable indicates the Ollama server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrProviderUnavailable indicates no usable provider is configured:
	// the LLM is disabled, the provider is unknown, or a required key is missing.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrProviderRejected indicates the provider refused the request
	// (bad key, bad model, malformed body). Retrying will not help.
	ErrProviderRejected = errors.New("llm provider rejected request")

	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into
	// the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// StatusError is a non-200 reply from a provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// Retryable is true for rate limiting and server-side failures.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}
