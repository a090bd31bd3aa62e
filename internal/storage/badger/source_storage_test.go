package badger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

func testStorageManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	config := &common.StorageConfig{
		CatalogPath: filepath.Join(t.TempDir(), "catalog"),
	}
	manager, err := NewManager(config, common.GetLogger())
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func sampleSource(url string, createdAt time.Time) *models.Source {
	return &models.Source{
		URL:        url,
		Domain:     common.Domain(url),
		Title:      "Sample",
		ChunkCount: 4,
		Status:     models.SourceStatusSuccess,
		CreatedAt:  createdAt,
	}
}

func TestSaveAndGetSource(t *testing.T) {
	storage := testStorageManager(t).SourceStorage()

	source := sampleSource("https://example.com/about", time.Now())
	source.Images = []models.Image{{URL: "https://example.com/a.jpg", AltText: "alt"}}
	require.NoError(t, storage.SaveSource(source))

	loaded, err := storage.GetSource(source.URL)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, source.URL, loaded.URL)
	assert.Equal(t, "Sample", loaded.Title)
	require.Len(t, loaded.Images, 1)
	assert.Equal(t, "alt", loaded.Images[0].AltText)
}

func TestGetSourceNotFound(t *testing.T) {
	storage := testStorageManager(t).SourceStorage()
	loaded, err := storage.GetSource("https://example.com/missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveSourceUpsertsByURL(t *testing.T) {
	storage := testStorageManager(t).SourceStorage()
	url := "https://example.com/"

	first := sampleSource(url, time.Now())
	first.Title = "First"
	require.NoError(t, storage.SaveSource(first))

	second := sampleSource(url, time.Now())
	second.Title = "Second"
	require.NoError(t, storage.SaveSource(second))

	sources, err := storage.ListSources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Second", sources[0].Title)
}

func TestListSourcesOrderedByCreation(t *testing.T) {
	storage := testStorageManager(t).SourceStorage()
	base := time.Now()

	require.NoError(t, storage.SaveSource(sampleSource("https://b.com/", base.Add(time.Second))))
	require.NoError(t, storage.SaveSource(sampleSource("https://a.com/", base)))
	require.NoError(t, storage.SaveSource(sampleSource("https://c.com/", base.Add(2*time.Second))))

	sources, err := storage.ListSources()
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "https://a.com/", sources[0].URL)
	assert.Equal(t, "https://c.com/", sources[2].URL)
}

func TestDeleteSource(t *testing.T) {
	storage := testStorageManager(t).SourceStorage()
	source := sampleSource("https://example.com/", time.Now())
	require.NoError(t, storage.SaveSource(source))

	require.NoError(t, storage.DeleteSource(source.URL))
	loaded, err := storage.GetSource(source.URL)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting an absent source is not an error.
	assert.NoError(t, storage.DeleteSource("https://example.com/missing"))
}

func TestDeleteAllSources(t *testing.T) {
	storage := testStorageManager(t).SourceStorage()
	require.NoError(t, storage.SaveSource(sampleSource("https://a.com/", time.Now())))
	require.NoError(t, storage.SaveSource(sampleSource("https://b.com/", time.Now())))

	require.NoError(t, storage.DeleteAll())
	sources, err := storage.ListSources()
	require.NoError(t, err)
	assert.Empty(t, sources)
}
