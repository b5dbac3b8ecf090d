package generation

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/avan-studio/avan-backend/internal/logger"
	"github.com/avan-studio/avan-backend/internal/metrics"
)

// Service wraps a Generator with prompt building, throttling and failure masking.
type Service struct {
	gen      Generator
	provider string
	limiter  *rate.Limiter
}

// NewService builds a Service. A nil limiter means no throttle.
func NewService(gen Generator, provider string, limiter *rate.Limiter) *Service {
	return &Service{gen: gen, provider: provider, limiter: limiter}
}

func NewLimiter(perSec float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(perSec), burst)
}

// GenerateCode runs exactly one remote call. Any failure is logged and replaced by
// FailureMessage, so the result is always displayable text.
func (s *Service) GenerateCode(ctx context.Context, prompt string, history []string, currentCode, lang string) string {
	log := logger.Ctx(ctx)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			metrics.RecordGeneration(s.provider, metrics.OutcomeThrottled, 0)
			log.Error().Err(err).Str("provider", s.provider).Msg("generation throttle wait failed")
			return FailureMessage
		}
	}

	req := BuildRequest(prompt, history, currentCode, lang)

	start := time.Now()
	text, err := s.gen.Generate(ctx, req)
	took := time.Since(start)

	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, ErrEmptyResponse) {
			outcome = metrics.OutcomeEmpty
		}
		metrics.RecordGeneration(s.provider, outcome, took)
		log.Error().Err(err).Str("provider", s.provider).Dur("took", took).Msg("generation failed")
		return FailureMessage
	}

	metrics.RecordGeneration(s.provider, metrics.OutcomeOK, took)
	log.Info().
		Str("provider", s.provider).
		Dur("took", took).
		Int("history", len(req.Turns)-1).
		Int("code_len", len(currentCode)).
		Int("reply_len", len(text)).
		Msg("generation completed")
	return text
}
