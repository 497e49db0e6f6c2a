package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a single prompt, optionally carrying one image.
type Request struct {
	System    string
	Prompt    string
	ImageMIME string
	Image     []byte
	// JSON asks the provider for a JSON-only answer where it supports that.
	JSON        bool
	Temperature float64
	MaxTokens   int
}

// Response is the text produced by the model.
type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Config holds configuration for LLM clients and the Service around them.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("no content in response")

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
