package interfaces

import (
	"context"
)

// EmbeddingService generates vector embeddings. Index builds and query-time
// searches must use the same provider and dimension.
type EmbeddingService interface {
	// Generate embedding for raw text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int
}
