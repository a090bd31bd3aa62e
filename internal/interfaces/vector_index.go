package interfaces

import (
	"context"

	"github.com/ternarybob/colligo/internal/models"
)

// VectorIndex is one source's persisted chunk index.
type VectorIndex interface {
	// Build embeds the chunks and persists them with their vectors.
	Build(ctx context.Context, chunks []models.Chunk) error

	// Search performs diversity-aware retrieval: the top k results drawn
	// from a candidate pool of fetchK, with lambda trading relevance (1.0)
	// against novelty (0.0).
	Search(ctx context.Context, query string, k, fetchK int, lambda float64) ([]models.Chunk, error)

	// SimilaritySearch performs plain nearest-neighbor retrieval.
	SimilaritySearch(ctx context.Context, query string, k int) ([]models.Chunk, error)

	// Close releases the underlying store handle.
	Close() error
}

// IndexProvider resolves the vector index for an ingested source URL.
// Retrieval depends on this rather than the concrete manager so searches can
// be exercised against fakes.
type IndexProvider interface {
	OpenIndex(url string) (VectorIndex, error)
}
