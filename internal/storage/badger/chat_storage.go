package badger

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChatStorage implements the ChatStorage interface for Badger. The chat log
// is append-only: entries are written once and never mutated.
type ChatStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChatStorage creates a new ChatStorage instance.
func NewChatStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChatStorage {
	return &ChatStorage{
		db:     db,
		logger: logger,
	}
}

// AppendEntry persists one answered question.
func (s *ChatStorage) AppendEntry(entry *models.ChatEntry) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("chat entry ID is required")
	}
	if err := s.db.Store().Insert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to append chat entry: %w", err)
	}
	return nil
}

// ListEntries returns the chat log ordered by creation time.
func (s *ChatStorage) ListEntries() ([]*models.ChatEntry, error) {
	var entries []models.ChatEntry
	query := (&badgerhold.Query{}).SortBy("CreatedAt")
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list chat entries: %w", err)
	}

	out := make([]*models.ChatEntry, len(entries))
	for i := range entries {
		out[i] = &entries[i]
	}
	return out, nil
}

// DeleteAll clears the chat log.
func (s *ChatStorage) DeleteAll() error {
	if err := s.db.Store().DeleteMatching(&models.ChatEntry{}, nil); err != nil {
		return fmt.Errorf("failed to delete chat entries: %w", err)
	}
	return nil
}
