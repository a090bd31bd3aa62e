package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/ternarybob/colligo/internal/services/embeddings"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	config := &common.StorageConfig{IndexDir: t.TempDir()}
	m := NewManager(config, embeddings.NewOfflineProvider(64), common.GetLogger())
	t.Cleanup(func() { m.Close() })
	return m
}

func testChunks(url string, contents ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = models.Chunk{
			Content: content,
			Section: models.DetectSection(content),
			Index:   i,
			URL:     url,
			Domain:  common.Domain(url),
			Title:   "Test Page",
		}
	}
	return chunks
}

func TestBuildAndSimilaritySearch(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	url := "https://example.com/pricing"

	chunks := testChunks(url,
		"TITLE: Pricing Plans",
		"Our pricing starts at ten dollars per month for the basic plan",
		"The enterprise plan includes dedicated support and custom integrations",
		"Contact our sales team for volume discounts on annual subscriptions",
	)
	require.NoError(t, m.BuildIndex(ctx, url, chunks))

	idx, err := m.OpenIndex(url)
	require.NoError(t, err)

	results, err := idx.SimilaritySearch(ctx, "pricing dollars per month basic plan", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Content, "ten dollars per month")
}

func TestSearchReturnsAtMostK(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	url := "https://example.com/features"

	contents := []string{
		"HEADINGS:\nH1: Features",
		"Real-time collaboration across teams",
		"Version history with unlimited rollback",
		"Granular permissions for every workspace",
		"Offline mode keeps edits in sync",
		"Integrations with popular chat tools",
	}
	require.NoError(t, m.BuildIndex(ctx, url, testChunks(url, contents...)))

	idx, err := m.OpenIndex(url)
	require.NoError(t, err)

	results, err := idx.Search(ctx, "collaboration features", 3, 5, 0.7)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 3)
	assert.NotEmpty(t, results)
}

func TestSearchDiversityAvoidsDuplicates(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	url := "https://example.com/dup"

	// Three near-identical chunks and one distinct one. Diversity-aware
	// selection should reach the distinct chunk instead of returning all
	// three duplicates.
	contents := []string{
		"Widget pricing starts at ten dollars",
		"Widget pricing starts at ten dollars today",
		"Widget pricing starts at ten dollars now",
		"Support is available around the clock by email",
	}
	require.NoError(t, m.BuildIndex(ctx, url, testChunks(url, contents...)))

	idx, err := m.OpenIndex(url)
	require.NoError(t, err)

	results, err := idx.Search(ctx, "widget pricing dollars", 2, 4, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	found := false
	for _, chunk := range results {
		if chunk.Content == contents[3] {
			found = true
		}
	}
	assert.True(t, found, "diversity selection should include the distinct chunk, got %+v", results)
}

func TestOpenIndexUnknownURL(t *testing.T) {
	m := testManager(t)
	_, err := m.OpenIndex("https://example.com/never-ingested")
	assert.Error(t, err)
}

func TestBuildIndexReplacesExisting(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	url := "https://example.com/page"

	require.NoError(t, m.BuildIndex(ctx, url, testChunks(url, "Old content about cats")))
	require.NoError(t, m.BuildIndex(ctx, url, testChunks(url, "New content about dogs")))

	idx, err := m.OpenIndex(url)
	require.NoError(t, err)

	results, err := idx.SimilaritySearch(ctx, "content", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Content, "dogs")
}

func TestRemoveAllDeletesIndexes(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	url := "https://example.com/page"

	require.NoError(t, m.BuildIndex(ctx, url, testChunks(url, "Some content to index")))
	require.NoError(t, m.RemoveAll())

	_, err := m.OpenIndex(url)
	assert.Error(t, err)
}

func TestBuildIndexEmptyChunks(t *testing.T) {
	m := testManager(t)
	err := m.BuildIndex(context.Background(), "https://example.com/empty", nil)
	assert.Error(t, err)
}
