package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

func sampleEntry(question string, createdAt time.Time) *models.ChatEntry {
	return &models.ChatEntry{
		ID:        common.NewChatEntryID(),
		Question:  question,
		Answer:    "answer to " + question,
		Sources:   []string{"https://example.com/"},
		Elapsed:   2 * time.Second,
		CreatedAt: createdAt,
	}
}

func TestAppendAndListEntries(t *testing.T) {
	storage := testStorageManager(t).ChatStorage()
	base := time.Now()

	require.NoError(t, storage.AppendEntry(sampleEntry("first", base)))
	require.NoError(t, storage.AppendEntry(sampleEntry("second", base.Add(time.Second))))

	entries, err := storage.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Question)
	assert.Equal(t, "second", entries[1].Question)
	assert.Equal(t, []string{"https://example.com/"}, entries[0].Sources)
}

func TestAppendEntryRequiresID(t *testing.T) {
	storage := testStorageManager(t).ChatStorage()
	err := storage.AppendEntry(&models.ChatEntry{Question: "no id"})
	assert.Error(t, err)
}

func TestChatDeleteAll(t *testing.T) {
	storage := testStorageManager(t).ChatStorage()
	require.NoError(t, storage.AppendEntry(sampleEntry("q", time.Now())))

	require.NoError(t, storage.DeleteAll())
	entries, err := storage.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
