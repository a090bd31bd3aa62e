package llm

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
)

// NewService creates the completion service for the configured provider.
// When no provider is configured, the provider is inferred from which API
// keys are present, preferring groq, then claude, then gemini.
func NewService(config *common.LLMConfig, logger arbor.ILogger) (interfaces.CompletionService, error) {
	provider := config.Provider
	if provider == "" {
		provider = detectProvider(config)
	}

	switch provider {
	case common.LLMProviderGroq:
		return NewGroqService(config, logger)
	case common.LLMProviderClaude:
		return NewClaudeService(config, logger)
	case common.LLMProviderGemini:
		return NewGeminiService(config, logger)
	default:
		return nil, fmt.Errorf("unknown completion provider: %s", provider)
	}
}

func detectProvider(config *common.LLMConfig) common.LLMProvider {
	switch {
	case config.GroqAPIKey != "":
		return common.LLMProviderGroq
	case config.ClaudeAPIKey != "":
		return common.LLMProviderClaude
	case config.GeminiAPIKey != "":
		return common.LLMProviderGemini
	default:
		return common.LLMProviderGroq
	}
}

func parseTimeout(value string) (time.Duration, error) {
	if value == "" {
		return 30 * time.Second, nil
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration '%s': %w", value, err)
	}
	return timeout, nil
}
