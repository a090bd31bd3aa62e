package images

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"golang.org/x/time/rate"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultDownloadTimeout bounds a single image download.
	DefaultDownloadTimeout = 10 * time.Second

	// DefaultMaxBytes rejects images larger than this before download.
	DefaultMaxBytes = 5 * 1024 * 1024
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Downloader fetches candidate images into a local cache directory with a
// politeness rate limit and size/dimension validation.
type Downloader struct {
	client    *http.Client
	limiter   *rate.Limiter
	cacheDir  string
	userAgent string
	maxBytes  int64
	minDim    int
	maxDim    int
	logger    arbor.ILogger
}

// NewDownloader creates a rate-limited image downloader.
func NewDownloader(config *common.ImagesConfig, cacheDir, userAgent string, logger arbor.ILogger) *Downloader {
	timeout := DefaultDownloadTimeout
	if config.DownloadTimeout != "" {
		if parsed, err := time.ParseDuration(config.DownloadTimeout); err == nil {
			timeout = parsed
		}
	}

	maxBytes := config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	return &Downloader{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		cacheDir:  cacheDir,
		userAgent: userAgent,
		maxBytes:  maxBytes,
		minDim:    config.MinDimension,
		maxDim:    config.MaxDimension,
		logger:    logger,
	}
}

// Download fetches one image into the cache and returns its local path. The
// file is named from hashes of the source page and image URLs so repeat
// downloads overwrite rather than accumulate. Files failing content-type,
// size, or dimension checks are removed and an error is returned.
func (d *Downloader) Download(ctx context.Context, pageURL, imageURL string) (string, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid image url %s: %w", imageURL, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("image request returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unexpected content type %q", contentType)
	}
	if resp.ContentLength > d.maxBytes {
		return "", fmt.Errorf("image too large: %d bytes", resp.ContentLength)
	}

	if err := os.MkdirAll(d.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image cache: %w", err)
	}

	localPath := filepath.Join(d.cacheDir, d.filename(pageURL, imageURL))
	if err := d.writeFile(localPath, resp.Body); err != nil {
		return "", err
	}

	if err := d.validateDimensions(localPath); err != nil {
		os.Remove(localPath)
		return "", err
	}

	return localPath, nil
}

func (d *Downloader) writeFile(path string, body io.Reader) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, io.LimitReader(body, d.maxBytes+1)); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// validateDimensions rejects images outside the configured size window,
// which filters out tracking pixels and oversized originals.
func (d *Downloader) validateDimensions(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width < d.minDim || cfg.Height < d.minDim {
		return fmt.Errorf("image too small: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width > d.maxDim || cfg.Height > d.maxDim {
		return fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}

// filename derives a stable cache filename from the page and image URL
// hashes, keeping the image's extension when it is a known type.
func (d *Downloader) filename(pageURL, imageURL string) string {
	ext := strings.ToLower(filepath.Ext(strippedPath(imageURL)))
	if !allowedExtensions[ext] {
		ext = ".jpg"
	}
	return common.ImageFilenameStem(pageURL, imageURL) + ext
}

func strippedPath(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
