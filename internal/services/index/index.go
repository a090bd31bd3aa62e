package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

const (
	metaKey     = "meta"
	chunkPrefix = "chunk:"
)

// chunkRecord is the persisted form of one embedded chunk.
type chunkRecord struct {
	Chunk  models.Chunk `json:"chunk"`
	Vector []float32    `json:"vector"`
}

// indexMeta records how an index was built so mismatched opens can be
// detected instead of silently returning garbage similarities.
type indexMeta struct {
	URL        string    `json:"url"`
	Model      string    `json:"model"`
	Dimension  int       `json:"dimension"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Index is one source's vector index backed by a dedicated badger store.
// Sources never exceed a few hundred chunks, so search loads all records and
// ranks in memory.
type Index struct {
	db       *badger.DB
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

func newIndex(db *badger.DB, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Index {
	return &Index{db: db, embedder: embedder, logger: logger}
}

// Build embeds every chunk and persists the records plus the index metadata
// in a single transaction. Rebuilding replaces any previous content.
func (idx *Index) Build(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("cannot build index from zero chunks")
	}

	records := make([]chunkRecord, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := idx.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", chunk.Index, err)
		}
		records = append(records, chunkRecord{Chunk: chunk, Vector: vector})
	}

	meta := indexMeta{
		URL:        chunks[0].URL,
		Model:      idx.embedder.ModelName(),
		Dimension:  idx.embedder.Dimension(),
		ChunkCount: len(records),
		CreatedAt:  time.Now(),
	}

	err := idx.db.Update(func(txn *badger.Txn) error {
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(metaKey), metaBytes); err != nil {
			return err
		}

		for i, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%06d", chunkPrefix, i)
			if err := txn.Set([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}

	idx.logger.Debug().
		Str("url", meta.URL).
		Int("chunks", meta.ChunkCount).
		Str("model", meta.Model).
		Msg("Vector index built")

	return nil
}

// Search performs maximal-marginal-relevance retrieval: rank fetchK
// candidates by cosine similarity, then greedily select k results trading
// query relevance against novelty with lambda. Falls back to plain
// similarity search when selection yields nothing.
func (idx *Index) Search(ctx context.Context, query string, k, fetchK int, lambda float64) ([]models.Chunk, error) {
	queryVec, records, err := idx.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := rankBySimilarity(queryVec, records)
	if len(candidates) > fetchK {
		candidates = candidates[:fetchK]
	}

	selected := selectMMR(queryVec, candidates, k, lambda)
	if len(selected) == 0 {
		selected = candidates
		if len(selected) > k {
			selected = selected[:k]
		}
	}

	chunks := make([]models.Chunk, len(selected))
	for i, cand := range selected {
		chunks[i] = cand.record.Chunk
	}
	return chunks, nil
}

// SimilaritySearch performs plain nearest-neighbor retrieval.
func (idx *Index) SimilaritySearch(ctx context.Context, query string, k int) ([]models.Chunk, error) {
	queryVec, records, err := idx.prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	ranked := rankBySimilarity(queryVec, records)
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	chunks := make([]models.Chunk, len(ranked))
	for i, cand := range ranked {
		chunks[i] = cand.record.Chunk
	}
	return chunks, nil
}

// Close releases the store handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// prepare embeds the query and loads all chunk records.
func (idx *Index) prepare(ctx context.Context, query string) ([]float32, []chunkRecord, error) {
	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed query: %w", err)
	}

	records, err := idx.loadRecords()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("index contains no chunks")
	}

	return queryVec, records, nil
}

func (idx *Index) loadRecords() ([]chunkRecord, error) {
	var records []chunkRecord
	err := idx.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(chunkPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record chunkRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load index records: %w", err)
	}
	return records, nil
}

type candidate struct {
	record     chunkRecord
	similarity float64
}

// rankBySimilarity sorts records by descending cosine similarity to the
// query, breaking ties by chunk order for determinism.
func rankBySimilarity(queryVec []float32, records []chunkRecord) []candidate {
	candidates := make([]candidate, len(records))
	for i, record := range records {
		candidates[i] = candidate{record: record, similarity: cosineSimilarity(queryVec, record.Vector)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].similarity != candidates[j].similarity {
			return candidates[i].similarity > candidates[j].similarity
		}
		return candidates[i].record.Chunk.Index < candidates[j].record.Chunk.Index
	})
	return candidates
}

// selectMMR greedily picks k candidates maximizing
// lambda*sim(query) - (1-lambda)*max sim(already selected).
func selectMMR(queryVec []float32, candidates []candidate, k int, lambda float64) []candidate {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	var selected []candidate
	remaining := make([]candidate, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				sim := cosineSimilarity(cand.record.Vector, sel.record.Vector)
				if sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*cand.similarity - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
