package images

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// skipSubstrings marks decorative and tracking images by URL fragment.
var skipSubstrings = []string{"icon", "logo", "pixel.", "tracker", "advertisement", "ad.", "/ad/"}

// Pipeline harvests page images with their context and downloads the usable
// candidates into the shared cache. Everything is best-effort: an unusable
// candidate is skipped, never an error.
type Pipeline struct {
	downloader   *Downloader
	maxPerSource int
	logger       arbor.ILogger
}

// NewPipeline creates an image pipeline from configuration. The cache
// directory and user agent come from the storage and fetcher sections.
func NewPipeline(config *common.Config, logger arbor.ILogger) *Pipeline {
	return &Pipeline{
		downloader:   NewDownloader(&config.Images, config.Storage.ImageCacheDir, config.Fetcher.UserAgent, logger),
		maxPerSource: config.Images.MaxPerSource,
		logger:       logger,
	}
}

// Process harvests, downloads, and validates images for one source page.
// Accepted images carry their local cache path and description; processing
// stops once the per-source cap is reached.
func (p *Pipeline) Process(ctx context.Context, pageURL string, body []byte) []models.Image {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		p.logger.Debug().Err(err).Str("url", pageURL).Msg("Image harvest skipped: page not parseable")
		return nil
	}

	candidates := p.Harvest(doc, pageURL, string(body))
	domain := common.Domain(pageURL)

	var accepted []models.Image
	for _, img := range candidates {
		if len(accepted) >= p.maxPerSource {
			break
		}

		localPath, err := p.downloader.Download(ctx, pageURL, img.URL)
		if err != nil {
			p.logger.Debug().Err(err).Str("image_url", img.URL).Msg("Image candidate rejected")
			continue
		}

		img.LocalPath = localPath
		img.Description = img.Describe(domain)
		accepted = append(accepted, img)
	}

	p.logger.Debug().
		Str("url", pageURL).
		Int("candidates", len(candidates)).
		Int("accepted", len(accepted)).
		Msg("Image pipeline completed")

	return accepted
}

// Harvest collects image candidates with their surrounding context. It never
// downloads; callers decide which candidates to fetch.
func (p *Pipeline) Harvest(doc *goquery.Document, pageURL, pageText string) []models.Image {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var candidates []models.Image
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		img, ok := extractImageInfo(sel, base, pageText)
		if ok {
			candidates = append(candidates, img)
		}
	})

	return candidates
}

// extractImageInfo resolves and filters one <img> element, harvesting alt
// text, caption, nearest heading, and a surrounding-text window.
func extractImageInfo(sel *goquery.Selection, base *url.URL, pageText string) (models.Image, bool) {
	src, _ := sel.Attr("src")
	resolved := common.ResolveURL(src, base)
	if resolved == "" || !common.IsValidURL(resolved) {
		return models.Image{}, false
	}

	lowered := strings.ToLower(resolved)
	for _, skip := range skipSubstrings {
		if strings.Contains(lowered, skip) {
			return models.Image{}, false
		}
	}

	img := models.Image{URL: resolved}
	img.AltText, _ = sel.Attr("alt")
	img.Caption = findCaption(sel)
	img.Heading = findNearestHeading(sel)
	img.SurroundingText = surroundingText(sel, pageText)

	return img, true
}

// findCaption returns the text of a figcaption inside the element's
// immediate parent, if any.
func findCaption(sel *goquery.Selection) string {
	parent := sel.Parent()
	if parent.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(parent.Find("figcaption").First().Text())
}

// findNearestHeading walks up to 5 ancestor levels and returns the first
// h1-h6 text found beneath an ancestor.
func findNearestHeading(sel *goquery.Selection) string {
	current := sel
	for i := 0; i < 5; i++ {
		current = current.Parent()
		if current.Length() == 0 {
			break
		}
		heading := current.Find("h1, h2, h3, h4, h5, h6").First()
		if heading.Length() > 0 {
			return strings.TrimSpace(heading.Text())
		}
	}
	return ""
}

// surroundingText returns a ±100-character window around the serialized
// <img> tag's position in the raw page text.
func surroundingText(sel *goquery.Selection, pageText string) string {
	serialized, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}

	pos := strings.Index(pageText, serialized)
	if pos < 0 {
		// Serialization rarely matches the raw markup byte for byte; fall
		// back to locating the src attribute.
		if src, ok := sel.Attr("src"); ok && src != "" {
			pos = strings.Index(pageText, src)
		}
		if pos < 0 {
			return ""
		}
		serialized = ""
	}

	start := pos - 100
	if start < 0 {
		start = 0
	}
	end := pos + len(serialized) + 100
	if end > len(pageText) {
		end = len(pageText)
	}

	return strings.TrimSpace(pageText[start:end])
}
