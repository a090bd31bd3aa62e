package ingest

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/ternarybob/colligo/internal/services/chunker"
	"github.com/ternarybob/colligo/internal/services/extractor"
	"github.com/ternarybob/colligo/internal/services/fetcher"
	"github.com/ternarybob/colligo/internal/services/images"
	"github.com/ternarybob/colligo/internal/services/index"
)

// Progress reports per-URL ingestion progress to the caller.
type Progress func(url string, position, total int, err error)

// Service orchestrates ingestion: fetch, extract, harvest images, chunk,
// embed, index, persist. A batch replaces the previous corpus.
type Service struct {
	config    *common.Config
	fetcher   *fetcher.Fetcher
	extractor *extractor.Service
	images    *images.Pipeline
	chunker   *chunker.Chunker
	indexes   *index.Manager
	sources   interfaces.SourceStorage
	logger    arbor.ILogger
}

// NewService creates the ingest orchestrator.
func NewService(
	config *common.Config,
	fetch *fetcher.Fetcher,
	extract *extractor.Service,
	imagePipeline *images.Pipeline,
	chunk *chunker.Chunker,
	indexes *index.Manager,
	sources interfaces.SourceStorage,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:    config,
		fetcher:   fetch,
		extractor: extract,
		images:    imagePipeline,
		chunker:   chunk,
		indexes:   indexes,
		sources:   sources,
		logger:    logger,
	}
}

// ProcessBatch ingests the given URLs in order, replacing any previously
// ingested corpus. Per-URL failures are recorded in the returned map and in
// the catalog; the batch always runs to completion. The progress callback,
// when non-nil, fires after each URL.
func (s *Service) ProcessBatch(ctx context.Context, urls []string, progress Progress) (map[string]error, error) {
	if err := s.clearCorpus(); err != nil {
		return nil, err
	}

	failures := make(map[string]error)
	for i, url := range urls {
		err := s.processOne(ctx, url)
		if err != nil {
			failures[url] = err
			s.logger.Warn().Err(err).Str("url", url).Msg("Source ingestion failed")
		}
		if progress != nil {
			progress(url, i+1, len(urls), err)
		}
	}

	s.logger.Info().
		Int("total", len(urls)).
		Int("failed", len(failures)).
		Msg("Ingestion batch completed")

	return failures, nil
}

// ClearAll removes every ingested source, its indexes, and the image cache.
func (s *Service) ClearAll() error {
	if err := s.clearCorpus(); err != nil {
		return err
	}
	return nil
}

func (s *Service) clearCorpus() error {
	if err := s.indexes.RemoveAll(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.config.Storage.ImageCacheDir); err != nil {
		return err
	}
	return s.sources.DeleteAll()
}

// processOne runs the full pipeline for a single URL. The page body is
// fetched once and feeds extraction, enrichment, and image harvesting.
func (s *Service) processOne(ctx context.Context, url string) error {
	start := time.Now()

	if err := s.validate(url); err != nil {
		s.recordFailure(url, err)
		return err
	}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.recordFailure(url, err)
		return err
	}

	result, err := s.extractor.Extract(ctx, url, body)
	if err != nil {
		s.recordFailure(url, err)
		return err
	}

	var harvested []models.Image
	if s.config.Images.Enabled {
		harvested = s.images.Process(ctx, url, body)
	}

	domain := common.Domain(url)
	chunks, err := s.chunker.Chunk(url, domain, result.Metadata.Title, result.Content)
	if err != nil {
		s.recordFailure(url, err)
		return err
	}

	if err := s.indexes.BuildIndex(ctx, url, chunks); err != nil {
		s.recordFailure(url, err)
		return err
	}

	source := &models.Source{
		URL:         url,
		Domain:      domain,
		Title:       result.Metadata.Title,
		Authors:     result.Metadata.Authors,
		PublishDate: result.Metadata.PublishDate,
		Description: result.Metadata.Description,
		Keywords:    result.Metadata.Keywords,
		Images:      harvested,
		ArticleHTML: result.Metadata.ArticleHTML,
		ChunkCount:  len(chunks),
		IndexPath:   s.indexes.IndexPath(url),
		Status:      models.SourceStatusSuccess,
		CreatedAt:   time.Now(),
	}
	if err := s.sources.SaveSource(source); err != nil {
		return err
	}

	s.logger.Info().
		Str("url", url).
		Int("chunks", len(chunks)).
		Int("images", len(harvested)).
		Dur("elapsed", time.Since(start)).
		Msg("Source ingested")

	return nil
}

func (s *Service) validate(url string) error {
	if !common.IsValidURL(url) {
		return &models.InvalidInputError{URL: url, Reason: "must be an absolute http or https URL"}
	}
	if !s.config.AllowTestURLs() && isTestURL(url) {
		return &models.InvalidInputError{URL: url, Reason: "local addresses are not allowed in production"}
	}
	return nil
}

func isTestURL(url string) bool {
	lowered := strings.ToLower(url)
	for _, host := range []string{"localhost", "127.0.0.1", "0.0.0.0", "[::1]"} {
		if strings.Contains(lowered, host) {
			return true
		}
	}
	return false
}

// recordFailure persists a failed Source so the catalog shows what went
// wrong; a failed source never has an index.
func (s *Service) recordFailure(url string, cause error) {
	source := &models.Source{
		URL:       url,
		Domain:    common.Domain(url),
		Status:    models.SourceStatusFailed,
		Error:     cause.Error(),
		CreatedAt: time.Now(),
	}
	if err := s.sources.SaveSource(source); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Failed to record source failure")
	}
}
