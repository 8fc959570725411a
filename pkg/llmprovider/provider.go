// Package llmprovider wraps langchaingo chat backends behind a single
// three-method capability: Complete, HealthCheck, Name. Content
// generation (pkg/content) and the workflow pipeline depend only on
// this interface, never on a concrete backend.
package llmprovider

import (
	"context"
	"fmt"
)

// Usage reports token consumption for one Complete call, accumulated
// across any retries the caller performed.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the result of a completion request.
type Response struct {
	Text  string
	Usage Usage
	Model string
}

// CompleteParams are the generation knobs a caller may set; zero values
// fall back to the backend's own defaults.
type CompleteParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is the capability set content generation depends on.
type Provider interface {
	Complete(ctx context.Context, system, user string, params CompleteParams) (Response, error)
	HealthCheck(ctx context.Context) error
	Name() string
}

// ErrorKind is the closed taxonomy of provider-level failures.
type ErrorKind string

const (
	ErrNotConfigured   ErrorKind = "not_configured"
	ErrHTTPError       ErrorKind = "http_error"
	ErrRateLimited     ErrorKind = "rate_limited"
	ErrInvalidResponse ErrorKind = "invalid_response"
	ErrTimeout         ErrorKind = "timeout"
)

// ProviderError is the error type every Provider implementation returns.
type ProviderError struct {
	Kind    ErrorKind
	Message string
	Wrapped error
}

func (e *ProviderError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("llmprovider: %s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("llmprovider: %s: %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Wrapped }
