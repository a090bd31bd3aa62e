package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
)

// fakeIndex returns canned chunks; Search can be forced to fail to exercise
// the similarity fallback.
type fakeIndex struct {
	chunks     []models.Chunk
	failSearch bool
	lastQuery  string
}

func (f *fakeIndex) Build(context.Context, []models.Chunk) error { return nil }

func (f *fakeIndex) Search(_ context.Context, query string, k, _ int, _ float64) ([]models.Chunk, error) {
	f.lastQuery = query
	if f.failSearch {
		return nil, errors.New("mmr failed")
	}
	if len(f.chunks) > k {
		return f.chunks[:k], nil
	}
	return f.chunks, nil
}

func (f *fakeIndex) SimilaritySearch(_ context.Context, query string, k int) ([]models.Chunk, error) {
	f.lastQuery = query
	if len(f.chunks) > k {
		return f.chunks[:k], nil
	}
	return f.chunks, nil
}

func (f *fakeIndex) Close() error { return nil }

type fakeProvider struct {
	indexes map[string]*fakeIndex
}

func (p *fakeProvider) OpenIndex(url string) (interfaces.VectorIndex, error) {
	idx, ok := p.indexes[url]
	if !ok {
		return nil, errors.New("no index for " + url)
	}
	return idx, nil
}

func testSource(url, domain, title string) *models.Source {
	return &models.Source{URL: url, Domain: domain, Title: title}
}

func newTestRetriever(provider interfaces.IndexProvider) *Retriever {
	config := &common.RetrievalConfig{ResultCount: 8, CandidatePool: 15, DiversityLambda: 0.7}
	return New(provider, config, common.GetLogger())
}

func TestTargetSourcesByDomain(t *testing.T) {
	sources := []*models.Source{
		testSource("https://alpha.com/", "alpha.com", "Alpha"),
		testSource("https://beta.org/", "beta.org", "Beta"),
	}

	targets := TargetSources("what does beta.org say about pricing", sources)
	require.Len(t, targets, 1)
	assert.Equal(t, "beta.org", targets[0].Domain)

	targets = TargetSources("what is the pricing", sources)
	assert.Len(t, targets, 2)
}

func TestRetrieveAssemblesContext(t *testing.T) {
	url := "https://alpha.com/"
	provider := &fakeProvider{indexes: map[string]*fakeIndex{
		url: {chunks: []models.Chunk{
			{Content: "MAIN CONTENT:\nAlpha builds rockets", Section: models.SectionMainContent},
			{Content: "TITLE: Alpha Industries", Section: models.SectionTitle},
			{Content: "More about rocket engines", Section: models.SectionMainContent},
		}},
	}}

	r := newTestRetriever(provider)
	result, err := r.Retrieve(context.Background(), "what does alpha build?",
		[]*models.Source{testSource(url, "alpha.com", "Alpha Industries")})
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)

	assert.True(t, strings.HasPrefix(result.Context, "SOURCE: alpha.com\nTITLE: Alpha Industries\n\n"))

	// Title section is emitted before main content regardless of chunk order.
	titlePos := strings.Index(result.Context, "TITLE: Alpha Industries\n\nTITLE: Alpha Industries")
	mainPos := strings.Index(result.Context, "Alpha builds rockets")
	assert.Greater(t, mainPos, titlePos)
	assert.Contains(t, result.Context, "MAIN CONTENT:\nAlpha builds rockets\nMore about rocket engines")
}

func TestRetrieveJoinsSourcesWithSeparator(t *testing.T) {
	provider := &fakeProvider{indexes: map[string]*fakeIndex{
		"https://alpha.com/": {chunks: []models.Chunk{{Content: "Alpha content", Section: models.SectionUnknown}}},
		"https://beta.org/":  {chunks: []models.Chunk{{Content: "Beta content", Section: models.SectionUnknown}}},
	}}

	r := newTestRetriever(provider)
	result, err := r.Retrieve(context.Background(), "what do these sites do?", []*models.Source{
		testSource("https://alpha.com/", "alpha.com", "Alpha"),
		testSource("https://beta.org/", "beta.org", "Beta"),
	})
	require.NoError(t, err)
	assert.Len(t, result.Sources, 2)
	assert.Contains(t, result.Context, "=====WEBSITE INFORMATION=====")
	assert.Contains(t, result.Context, "Alpha content")
	assert.Contains(t, result.Context, "Beta content")
}

func TestRetrieveFallsBackToSimilaritySearch(t *testing.T) {
	url := "https://alpha.com/"
	idx := &fakeIndex{
		chunks:     []models.Chunk{{Content: "Fallback content", Section: models.SectionUnknown}},
		failSearch: true,
	}
	provider := &fakeProvider{indexes: map[string]*fakeIndex{url: idx}}

	r := newTestRetriever(provider)
	result, err := r.Retrieve(context.Background(), "anything", []*models.Source{testSource(url, "alpha.com", "Alpha")})
	require.NoError(t, err)
	assert.Contains(t, result.Context, "Fallback content")
}

func TestRetrieveSkipsMissingIndexes(t *testing.T) {
	provider := &fakeProvider{indexes: map[string]*fakeIndex{}}
	r := newTestRetriever(provider)

	result, err := r.Retrieve(context.Background(), "anything",
		[]*models.Source{testSource("https://gone.com/", "gone.com", "Gone")})
	require.NoError(t, err)
	assert.Empty(t, result.Context)
	assert.Empty(t, result.Sources)
}

func TestRetrieveSearchesWithRewrittenQuery(t *testing.T) {
	url := "https://alpha.com/"
	idx := &fakeIndex{chunks: []models.Chunk{{Content: "c", Section: models.SectionUnknown}}}
	provider := &fakeProvider{indexes: map[string]*fakeIndex{url: idx}}

	r := newTestRetriever(provider)
	_, err := r.Retrieve(context.Background(), "give me a summary",
		[]*models.Source{testSource(url, "alpha.com", "Alpha")})
	require.NoError(t, err)
	assert.Contains(t, idx.lastQuery, "main content overview summary website purpose")
}
