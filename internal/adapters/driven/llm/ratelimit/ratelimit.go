// Package ratelimit decorates an LLM service with proactive request
// throttling. Hosted LLM APIs enforce per-minute request quotas;
// pacing requests with a token bucket avoids burning quota on 429
// responses when generating many questions in a row.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultRequestsPerMinute matches the free tiers of common hosted
// LLM APIs.
const DefaultRequestsPerMinute = 30

// LLMService wraps another LLM service and paces its requests.
type LLMService struct {
	inner  driven.LLMService
	bucket *rate.Limiter
}

// NewLLMService wraps inner with a token bucket allowing
// requestsPerMinute requests. A value of zero or less falls back to
// DefaultRequestsPerMinute.
func NewLLMService(inner driven.LLMService, requestsPerMinute int) *LLMService {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &LLMService{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Generate waits for a token, then delegates to the inner service.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// Chat waits for a token, then delegates to the inner service.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Chat(ctx, messages, opts)
}

// ModelName returns the inner service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates to the inner service. Pings are not throttled.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the inner service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
