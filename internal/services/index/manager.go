package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

// Manager owns the per-source index directories under the index root. Each
// source's index lives at {root}/{md5hex(url)}; handles are cached so
// repeated searches against the same source reuse one open store.
type Manager struct {
	root     string
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger

	mu   sync.Mutex
	open map[string]*Index
}

// NewManager creates an index manager rooted at the configured directory.
func NewManager(config *common.StorageConfig, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Manager {
	return &Manager{
		root:     config.IndexDir,
		embedder: embedder,
		logger:   logger,
		open:     make(map[string]*Index),
	}
}

// BuildIndex embeds and persists a source's chunks, replacing any existing
// index for that URL.
func (m *Manager) BuildIndex(ctx context.Context, url string, chunks []models.Chunk) error {
	dir := m.indexPath(url)

	m.mu.Lock()
	if existing, ok := m.open[dir]; ok {
		existing.Close()
		delete(m.open, dir)
	}
	m.mu.Unlock()

	// Rebuilds start from an empty directory.
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear index directory: %w", err)
	}

	idx, err := m.openAt(dir)
	if err != nil {
		return err
	}

	if err := idx.Build(ctx, chunks); err != nil {
		idx.Close()
		return err
	}

	m.mu.Lock()
	m.open[dir] = idx
	m.mu.Unlock()

	return nil
}

// OpenIndex returns the vector index for an ingested source URL, opening the
// store on first access.
func (m *Manager) OpenIndex(url string) (interfaces.VectorIndex, error) {
	dir := m.indexPath(url)

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.open[dir]; ok {
		return idx, nil
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("no index found for %s: %w", url, err)
	}

	idx, err := m.openAt(dir)
	if err != nil {
		return nil, err
	}
	m.open[dir] = idx
	return idx, nil
}

// RemoveIndex closes and deletes one source's index directory.
func (m *Manager) RemoveIndex(url string) error {
	dir := m.indexPath(url)

	m.mu.Lock()
	if idx, ok := m.open[dir]; ok {
		idx.Close()
		delete(m.open, dir)
	}
	m.mu.Unlock()

	return os.RemoveAll(dir)
}

// RemoveAll closes every open index and deletes the index root.
func (m *Manager) RemoveAll() error {
	m.mu.Lock()
	for dir, idx := range m.open {
		idx.Close()
		delete(m.open, dir)
	}
	m.mu.Unlock()

	if err := os.RemoveAll(m.root); err != nil {
		return fmt.Errorf("failed to remove index root: %w", err)
	}
	m.logger.Debug().Str("root", m.root).Msg("All vector indexes removed")
	return nil
}

// Close releases every open index handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for dir, idx := range m.open {
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.open, dir)
	}
	return firstErr
}

// IndexPath returns the on-disk directory for a source's index.
func (m *Manager) IndexPath(url string) string {
	return m.indexPath(url)
}

func (m *Manager) indexPath(url string) string {
	return filepath.Join(m.root, common.URLHash(url))
}

func (m *Manager) openAt(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	options := badger.DefaultOptions(dir)
	options.Logger = nil // arbor handles logging

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store at %s: %w", dir, err)
	}

	return newIndex(db, m.embedder, m.logger), nil
}
