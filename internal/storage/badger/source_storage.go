package badger

import (
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SourceStorage implements the SourceStorage interface for Badger.
type SourceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSourceStorage creates a new SourceStorage instance.
func NewSourceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SourceStorage {
	return &SourceStorage{
		db:     db,
		logger: logger,
	}
}

// SaveSource inserts or replaces a source record keyed by its URL.
func (s *SourceStorage) SaveSource(source *models.Source) error {
	if source == nil || source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if err := s.db.Store().Upsert(source.URL, source); err != nil {
		return fmt.Errorf("failed to save source: %w", err)
	}
	return nil
}

// GetSource returns the source for a URL, or nil when not found.
func (s *SourceStorage) GetSource(url string) (*models.Source, error) {
	var source models.Source
	err := s.db.Store().Get(url, &source)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return &source, nil
}

// ListSources returns every source ordered by creation time.
func (s *SourceStorage) ListSources() ([]*models.Source, error) {
	var sources []models.Source
	query := (&badgerhold.Query{}).SortBy("CreatedAt")
	if err := s.db.Store().Find(&sources, query); err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	out := make([]*models.Source, len(sources))
	for i := range sources {
		out[i] = &sources[i]
	}
	return out, nil
}

// DeleteSource removes one source record.
func (s *SourceStorage) DeleteSource(url string) error {
	err := s.db.Store().Delete(url, &models.Source{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return nil
}

// DeleteAll removes every source record.
func (s *SourceStorage) DeleteAll() error {
	if err := s.db.Store().DeleteMatching(&models.Source{}, nil); err != nil {
		return fmt.Errorf("failed to delete sources: %w", err)
	}
	return nil
}
