package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	config := &common.FetcherConfig{
		UserAgent:   "colligo-test",
		Timeout:     "5s",
		MaxBodySize: 1024 * 1024,
	}
	return New(config, common.GetLogger())
}

func TestFetchReturnsBody(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><head><title>Hi</title></head><body>hello</body></html>"))
	}))
	defer server.Close()

	f := newTestFetcher(t)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "hello")
	assert.Equal(t, "colligo-test", gotUserAgent)
}

func TestFetchNon2xxFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *models.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetchNetworkErrorFails(t *testing.T) {
	f := newTestFetcher(t)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)

	var fetchErr *models.FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestFetchBodySizeCap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer server.Close()

	config := &common.FetcherConfig{
		UserAgent:   "colligo-test",
		Timeout:     "5s",
		MaxBodySize: 1024,
	}
	f := New(config, common.GetLogger())
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)
}
