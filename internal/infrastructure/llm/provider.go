package llm

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/supportdesk/backend/internal/domain/support"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"github.com/supportdesk/backend/internal/infrastructure/log"
)

// ErrNotConfigured 未配置生成模型
var ErrNotConfigured = errors.New("no generative model configured")

// disabledGenerator 未配置模型时使用，所有调用都失败
type disabledGenerator struct{}

func (disabledGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrNotConfigured
}

// IsEnabled 是否配置了可用的生成模型
func IsEnabled(cfg *config.LLMConfig) bool {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return cfg.APIKey != ""
	case config.ProviderGemini:
		return cfg.GeminiAPIKey != ""
	default:
		return false
	}
}

// ProvideGenerator 根据配置选择生成模型实现
func ProvideGenerator(cfg *config.LLMConfig) (domain.Generator, error) {
	logger := log.NewModuleLogger("llm", "provider")

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			logger.Warn("LLM provider openai configured without API key, generation disabled")
			return disabledGenerator{}, nil
		}
		return NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("LLM provider gemini configured without GOOGLE_API_KEY, generation disabled")
			return disabledGenerator{}, nil
		}
		client, err := NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderNone, "":
		logger.Warn("No LLM provider configured, generation disabled")
		return disabledGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
