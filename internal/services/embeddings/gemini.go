package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/colligo/internal/common"
	"google.golang.org/genai"
)

// GeminiProvider generates embeddings through the Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	dimension int
	timeout   time.Duration
}

// NewGeminiProvider creates a Gemini embedding provider. Requires an API key.
func NewGeminiProvider(config *common.EmbeddingConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini embedding provider requires an API key")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	dimension := config.Dimension
	if dimension <= 0 {
		dimension = DefaultDimension
	}

	timeout := 30 * time.Second
	if config.Timeout != "" {
		if parsed, err := time.ParseDuration(config.Timeout); err == nil {
			timeout = parsed
		}
	}

	return &GeminiProvider{
		client:    client,
		model:     config.Model,
		dimension: dimension,
		timeout:   timeout,
	}, nil
}

// Embed generates an embedding vector with the configured dimensionality.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	outputDim := int32(p.dimension)
	result, err := p.client.Models.EmbedContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{OutputDimensionality: &outputDim})
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	return result.Embeddings[0].Values, nil
}

func (p *GeminiProvider) ModelName() string { return p.model }

func (p *GeminiProvider) Dimension() int { return p.dimension }
