package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

const (
	// DefaultTimeout bounds the single page fetch attempt.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodySize caps the response body read.
	DefaultMaxBodySize = 10 * 1024 * 1024
)

// Fetcher issues one timeout-bounded GET per URL with a realistic browser
// identity. There are no automatic retries; a failure aborts only the current
// source.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	logger      arbor.ILogger
}

// Option configures the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout sets the page fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithUserAgent sets the browser identity presented to target sites.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) {
		f.userAgent = userAgent
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(maxBytes int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = maxBytes
	}
}

// New creates a Fetcher from configuration.
func New(config *common.FetcherConfig, logger arbor.ILogger, opts ...Option) *Fetcher {
	timeout := DefaultTimeout
	if config != nil && config.Timeout != "" {
		if parsed, err := time.ParseDuration(config.Timeout); err == nil {
			timeout = parsed
		}
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		maxBodySize: DefaultMaxBodySize,
		logger:      logger,
	}
	if config != nil {
		f.userAgent = config.UserAgent
		if config.MaxBodySize > 0 {
			f.maxBodySize = int64(config.MaxBodySize)
		}
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the page body for a URL. Fails with models.FetchError on
// network failure or a non-2xx status.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.FetchError{URL: url, Err: err}
	}

	// Browser identity headers
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("Page fetch failed")
		return nil, &models.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn().Str("url", url).Int("status", resp.StatusCode).Msg("Page fetch returned non-2xx status")
		return nil, &models.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	limitReader := io.LimitReader(resp.Body, f.maxBodySize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, &models.FetchError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &models.FetchError{URL: url, Err: fmt.Errorf("response exceeds %d bytes", f.maxBodySize)}
	}

	f.logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Page fetched")

	return body, nil
}
