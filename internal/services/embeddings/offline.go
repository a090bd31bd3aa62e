package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const DefaultDimension = 384

// OfflineProvider produces deterministic embeddings from token hashes. It
// needs no network or API key, which keeps ingestion and retrieval usable
// without credentials and makes index tests reproducible. Vectors are unit
// length so cosine similarity reduces to a dot product.
type OfflineProvider struct {
	dimension int
}

// NewOfflineProvider creates the deterministic embedding provider.
func NewOfflineProvider(dimension int) *OfflineProvider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &OfflineProvider{dimension: dimension}
}

// Embed maps each token to a dimension by hash and accumulates weighted
// counts, then L2-normalizes. Identical text always yields identical vectors.
func (p *OfflineProvider) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, p.dimension)

	tokens := strings.Fields(strings.ToLower(text))
	for _, token := range tokens {
		token = strings.Trim(token, ".,;:!?\"'()[]{}")
		if token == "" {
			continue
		}

		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(p.dimension))
		// Low bit picks the sign so unrelated tokens cancel rather than
		// accumulate in the same direction.
		if sum&(1<<32) != 0 {
			vector[idx] += 1
		} else {
			vector[idx] -= 1
		}
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector, nil
}

func (p *OfflineProvider) ModelName() string { return "offline-hash" }

func (p *OfflineProvider) Dimension() int { return p.dimension }
