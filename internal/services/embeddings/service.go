package embeddings

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
)

// NewService selects the embedding provider from configuration. The offline
// provider is the default; gemini is opt-in and requires an API key.
func NewService(config *common.EmbeddingConfig, logger arbor.ILogger) (interfaces.EmbeddingService, error) {
	switch config.Provider {
	case "", "offline":
		logger.Debug().Int("dimension", config.Dimension).Msg("Using offline embedding provider")
		return NewOfflineProvider(config.Dimension), nil
	case "gemini":
		provider, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("model", provider.ModelName()).
			Int("dimension", provider.Dimension()).
			Msg("Using gemini embedding provider")
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", config.Provider)
	}
}
