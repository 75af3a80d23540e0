package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider wrapped with audit and retry
// middleware: caller → retry → audit → base.
func NewProvider(ctx context.Context, cfg Config, log CallLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithAudit(base, log), cfg.Retry), nil
}

// NewProviderFromEnv builds a provider from TEACHBACK_* variables, falling
// back to probing the standard vendor key variables.
func NewProviderFromEnv(ctx context.Context, log CallLog) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}
	return NewProvider(ctx, cfg, log)
}
