package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger.
type Manager struct {
	db      *BadgerDB
	sources interfaces.SourceStorage
	chat    interfaces.ChatStorage
	logger  arbor.ILogger
}

// NewManager creates a new Badger storage manager.
func NewManager(config *common.StorageConfig, logger arbor.ILogger) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(config, logger)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:      db,
		sources: NewSourceStorage(db, logger),
		chat:    NewChatStorage(db, logger),
		logger:  logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// SourceStorage returns the Source storage interface.
func (m *Manager) SourceStorage() interfaces.SourceStorage {
	return m.sources
}

// ChatStorage returns the Chat storage interface.
func (m *Manager) ChatStorage() interfaces.ChatStorage {
	return m.chat
}

// Close closes the database connection.
func (m *Manager) Close() error {
	return m.db.Close()
}
