package interfaces

import (
	"github.com/ternarybob/colligo/internal/models"
)

// SourceStorage persists the catalog of ingested sources, keyed by URL.
type SourceStorage interface {
	SaveSource(source *models.Source) error
	GetSource(url string) (*models.Source, error)
	ListSources() ([]*models.Source, error)
	DeleteSource(url string) error
	DeleteAll() error
}

// ChatStorage persists the append-only chat log.
type ChatStorage interface {
	AppendEntry(entry *models.ChatEntry) error
	ListEntries() ([]*models.ChatEntry, error)
	DeleteAll() error
}

// StorageManager provides access to all catalog storage interfaces.
type StorageManager interface {
	SourceStorage() SourceStorage
	ChatStorage() ChatStorage
	Close() error
}
