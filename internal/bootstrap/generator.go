package bootstrap

import (
	"context"
	"fmt"

	"github.com/avan-studio/avan-backend/config"
	"github.com/avan-studio/avan-backend/internal/generation"
)

// NewGenerator builds the configured provider behind the throttled service.
// The returned close func releases the provider client.
func NewGenerator(ctx context.Context, cfg config.GeneratorConfig) (*generation.Service, func() error, error) {
	var (
		gen     generation.Generator
		closeFn = func() error { return nil }
	)

	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := generation.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		gen, closeFn = g, g.Close
	case config.ProviderOpenAI:
		g, err := generation.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			return nil, nil, err
		}
		gen = g
	default:
		return nil, nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}

	limiter := generation.NewLimiter(cfg.RatePerSec, cfg.Burst)
	return generation.NewService(gen, cfg.Provider, limiter), closeFn, nil
}
