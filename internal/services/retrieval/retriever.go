package retrieval

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

// contextSeparator joins per-source context blocks in the prompt.
const contextSeparator = "\n\n=====WEBSITE INFORMATION=====\n\n"

// Result carries the assembled retrieval context and the sources that
// contributed chunks to it generally in catalog order.
type Result struct {
	Context string
	Sources []*models.Source
}

// Retriever searches the per-source vector indexes and assembles the context
// block for the completion prompt. Searches go through IndexProvider so the
// retriever can be exercised against fakes.
type Retriever struct {
	provider interfaces.IndexProvider
	k        int
	fetchK   int
	lambda   float64
	logger   arbor.ILogger
}

// New creates a Retriever from configuration.
func New(provider interfaces.IndexProvider, config *common.RetrievalConfig, logger arbor.ILogger) *Retriever {
	k := config.ResultCount
	if k <= 0 {
		k = 8
	}
	fetchK := config.CandidatePool
	if fetchK <= 0 {
		fetchK = 15
	}
	lambda := config.DiversityLambda
	if lambda <= 0 || lambda > 1 {
		lambda = 0.7
	}

	return &Retriever{
		provider: provider,
		k:        k,
		fetchK:   fetchK,
		lambda:   lambda,
		logger:   logger,
	}
}

// Retrieve rewrites the question, searches each targeted source's index, and
// assembles the grouped context. An empty Result.Context means no source
// produced relevant chunks.
func (r *Retriever) Retrieve(ctx context.Context, question string, sources []*models.Source) (*Result, error) {
	targets := TargetSources(question, sources)
	query := RewriteQuery(question)

	var blocks []string
	var contributing []*models.Source

	for _, source := range targets {
		chunks := r.searchSource(ctx, source.URL, query)
		if len(chunks) == 0 {
			continue
		}
		blocks = append(blocks, assembleBlock(source, chunks))
		contributing = append(contributing, source)
	}

	r.logger.Debug().
		Str("query", query).
		Int("targets", len(targets)).
		Int("contributing", len(contributing)).
		Msg("Retrieval completed")

	return &Result{
		Context: strings.Join(blocks, contextSeparator),
		Sources: contributing,
	}, nil
}

// TargetSources narrows the search to a single source when the question
// names its domain; otherwise every source is searched.
func TargetSources(question string, sources []*models.Source) []*models.Source {
	lowered := strings.ToLower(question)
	for _, source := range sources {
		if source.Domain != "" && strings.Contains(lowered, strings.ToLower(source.Domain)) {
			return []*models.Source{source}
		}
	}
	return sources
}

// searchSource runs diversity-aware search with a plain similarity fallback.
// Search failures skip the source rather than failing the question.
func (r *Retriever) searchSource(ctx context.Context, url, query string) []models.Chunk {
	idx, err := r.provider.OpenIndex(url)
	if err != nil {
		r.logger.Warn().Err(err).Str("url", url).Msg("Index unavailable, skipping source")
		return nil
	}

	chunks, err := idx.Search(ctx, query, r.k, r.fetchK, r.lambda)
	if err != nil {
		r.logger.Debug().Err(err).Str("url", url).Msg("Diversity search failed, falling back to similarity search")
		chunks, err = idx.SimilaritySearch(ctx, query, r.k)
		if err != nil {
			r.logger.Warn().Err(err).Str("url", url).Msg("Similarity search failed, skipping source")
			return nil
		}
	}
	return chunks
}

// assembleBlock groups one source's chunks by section and emits them in the
// fixed section order under the source header. Title and description sections
// contribute their first chunk only; other sections are newline-joined.
func assembleBlock(source *models.Source, chunks []models.Chunk) string {
	sections := make(map[string][]string)
	for _, chunk := range chunks {
		sections[chunk.Section] = append(sections[chunk.Section], chunk.Content)
	}

	title := source.Title
	if title == "" {
		title = source.Domain
	}

	var block strings.Builder
	block.WriteString("SOURCE: " + source.Domain + "\nTITLE: " + title + "\n\n")

	for _, section := range models.SectionOrder {
		contents, ok := sections[section]
		if !ok {
			continue
		}
		switch section {
		case models.SectionTitle, models.SectionDescription:
			block.WriteString(contents[0] + "\n\n")
		default:
			block.WriteString(strings.Join(contents, "\n") + "\n\n")
		}
	}

	return block.String()
}
