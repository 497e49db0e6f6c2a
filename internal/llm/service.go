package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/service"
)

// Service wraps a Client with rate limiting, retries, and a response cache
// for requests that carry no image.
type Service struct {
	client      Client
	cache       *responseCache
	logger      *slog.Logger
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewService creates a Service around client.
func NewService(client Client, cfg Config, logger *slog.Logger) *Service {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Service{
		client:      client,
		cache:       newResponseCache(cfg.CacheTTL),
		logger:      common.LoggerOrDefault(logger),
		retryOpts:   retryOpts,
		rateLimiter: newRateLimiter(cfg.RateLimit),
	}
}

// NewServiceFromConfig builds the provider client described by cfg and wraps it.
func NewServiceFromConfig(cfg Config, logger *slog.Logger) (*Service, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewService(client, cfg, logger), nil
}

// Generate runs req through the cache, the rate limiter and the retry loop.
func (s *Service) Generate(ctx context.Context, req Request) (Response, error) {
	cacheable := len(req.Image) == 0
	key := ""
	if cacheable {
		key = cacheKey(req)
		if resp, ok := s.cache.get(key); ok {
			s.logger.Debug("llm cache hit", "key", key[:12])
			return resp, nil
		}
	}

	var resp Response
	err := common.WithRetry(ctx, func() error {
		if err := s.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(fmt.Errorf("rate limit error: %w", err))
		}

		r, err := s.client.Generate(ctx, req)
		if err != nil {
			s.logger.Warn("llm request attempt failed", "error", err)
			return classify(ctx, err)
		}
		resp = r
		return nil
	}, s.retryOpts)
	if err != nil {
		return Response{}, fmt.Errorf("llm request failed: %w", err)
	}

	if cacheable {
		s.cache.set(key, resp)
	}
	s.logger.Debug("llm request completed",
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens)
	return resp, nil
}

// classify maps a provider error onto the retry policy.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return common.Permanent(err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrRateLimit, err), Retryable: true}
		case apiErr.StatusCode == http.StatusPaymentRequired:
			return common.Permanent(fmt.Errorf("%w: %w", common.ErrQuotaExceeded, err))
		case !apiErr.Temporary():
			return common.Permanent(err)
		}
	}
	return &common.RetryableError{Err: err, Retryable: true}
}

// Close stops background goroutines and cleans up resources.
func (s *Service) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	return nil
}
