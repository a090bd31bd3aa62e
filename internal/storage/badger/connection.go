package badger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB manages the catalog database connection. Sources and the chat log
// share one badgerhold store; per-source vector indexes live elsewhere.
type BadgerDB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewBadgerDB opens the catalog database at the configured path.
func NewBadgerDB(config *common.StorageConfig, logger arbor.ILogger) (*BadgerDB, error) {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.CatalogPath); err == nil {
			logger.Debug().Str("path", config.CatalogPath).Msg("Deleting existing catalog (reset_on_startup=true)")
			if err := os.RemoveAll(config.CatalogPath); err != nil {
				logger.Warn().Err(err).Str("path", config.CatalogPath).Msg("Failed to delete catalog directory")
			}
		}
	}

	dir := filepath.Dir(config.CatalogPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	logger.Debug().Str("path", config.CatalogPath).Msg("Opening catalog database")

	options := badgerhold.DefaultOptions
	options.Dir = config.CatalogPath
	options.ValueDir = config.CatalogPath
	options.Logger = nil // Disable default badger logger to use arbor

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	logger.Debug().Str("path", config.CatalogPath).Msg("Catalog database initialized")

	return &BadgerDB{
		store:  store,
		logger: logger,
	}, nil
}

// Store returns the underlying badgerhold store.
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// Close closes the database connection.
func (b *BadgerDB) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
