package images

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/colligo/internal/common"
)

func testPipeline(t *testing.T, cacheDir string) *Pipeline {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.ImageCacheDir = cacheDir
	config.Images.RequestsPerSecond = 1000 // no politeness delay in tests
	return NewPipeline(config, common.GetLogger())
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHarvestCollectsContext(t *testing.T) {
	html := `<html><body>
		<section>
			<h2>Team Photos</h2>
			<figure>
				<img src="/media/team.png" alt="The team on stage">
				<figcaption>Our team at the 2024 summit</figcaption>
			</figure>
		</section>
		<img src="https://cdn.example.com/logo.png" alt="company logo">
		<img src="https://tracker.example.com/pixel.gif">
	</body></html>`

	p := testPipeline(t, t.TempDir())
	candidates := p.Harvest(parseDoc(t, html), "https://example.com/about", html)

	require.Len(t, candidates, 1, "logo and tracking pixel should be filtered")
	img := candidates[0]
	assert.Equal(t, "https://example.com/media/team.png", img.URL)
	assert.Equal(t, "The team on stage", img.AltText)
	assert.Equal(t, "Our team at the 2024 summit", img.Caption)
	assert.Equal(t, "Team Photos", img.Heading)
	assert.Contains(t, img.SurroundingText, "team.png")
}

func TestHarvestSkipsUnresolvableSources(t *testing.T) {
	html := `<html><body>
		<img>
		<img src="">
		<img src="data:image/gif;base64,R0lGOD">
	</body></html>`

	p := testPipeline(t, t.TempDir())
	candidates := p.Harvest(parseDoc(t, html), "https://example.com/", html)
	assert.Empty(t, candidates)
}

func TestDownloadAcceptsValidImage(t *testing.T) {
	body := pngBytes(t, 200, 150)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	p := testPipeline(t, cacheDir)
	path, err := p.downloader.Download(context.Background(), "https://example.com/page", server.URL+"/photo.png")
	require.NoError(t, err)
	assert.Contains(t, path, cacheDir)
	assert.True(t, strings.HasSuffix(path, ".png"))
}

func TestDownloadRejectsTinyImage(t *testing.T) {
	body := pngBytes(t, 1, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	p := testPipeline(t, t.TempDir())
	_, err := p.downloader.Download(context.Background(), "https://example.com/page", server.URL+"/pix.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestDownloadRejectsNonImageContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer server.Close()

	p := testPipeline(t, t.TempDir())
	_, err := p.downloader.Download(context.Background(), "https://example.com/page", server.URL+"/fake.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content type")
}

func TestDownloadDefaultsUnknownExtension(t *testing.T) {
	body := pngBytes(t, 100, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	p := testPipeline(t, t.TempDir())
	path, err := p.downloader.Download(context.Background(), "https://example.com/page", server.URL+"/render?id=42")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".jpg"), "unknown extension should default to .jpg, got %s", path)
}

func TestProcessCapsAcceptedImages(t *testing.T) {
	body := pngBytes(t, 100, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	var html strings.Builder
	html.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		html.WriteString(`<img src="` + server.URL + `/photo` + string(rune('a'+i)) + `.png">`)
	}
	html.WriteString("</body></html>")

	config := common.NewDefaultConfig()
	config.Storage.ImageCacheDir = t.TempDir()
	config.Images.RequestsPerSecond = 1000
	config.Images.MaxPerSource = 3
	p := NewPipeline(config, common.GetLogger())

	accepted := p.Process(context.Background(), "https://example.com/gallery", []byte(html.String()))
	assert.Len(t, accepted, 3)
	for _, img := range accepted {
		assert.NotEmpty(t, img.LocalPath)
		assert.NotEmpty(t, img.Description)
	}
}
