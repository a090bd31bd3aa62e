package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/models"
)

// Service exports an ingested source's article content as a markdown
// document. Conversion failures degrade to tag stripping rather than erroring.
type Service struct {
	logger arbor.ILogger
}

// NewService creates an export service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// ExportMarkdown writes the source's article as a markdown file into dir and
// returns the written path. The document has a metadata header followed by
// the converted article body.
func (s *Service) ExportMarkdown(source *models.Source, dir string) (string, error) {
	if source == nil {
		return "", fmt.Errorf("source is required")
	}
	if source.ArticleHTML == "" {
		return "", fmt.Errorf("source %s has no article content to export", source.URL)
	}

	body := s.toMarkdown(source.ArticleHTML, source.URL)

	var doc strings.Builder
	title := source.Title
	if title == "" {
		title = source.Domain
	}
	doc.WriteString("# " + title + "\n\n")
	doc.WriteString("- Source: " + source.URL + "\n")
	if len(source.Authors) > 0 {
		doc.WriteString("- Authors: " + strings.Join(source.Authors, ", ") + "\n")
	}
	if source.PublishDate != "" {
		doc.WriteString("- Published: " + source.PublishDate + "\n")
	}
	doc.WriteString("- Exported: " + time.Now().Format("2006-01-02") + "\n\n")
	doc.WriteString(body)
	doc.WriteString("\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, exportFilename(source))
	if err := os.WriteFile(path, []byte(doc.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	s.logger.Info().
		Str("url", source.URL).
		Str("path", path).
		Msg("Source exported to markdown")

	return path, nil
}

// toMarkdown converts article HTML to markdown, stripping tags when the
// converter fails or produces nothing.
func (s *Service) toMarkdown(html, baseURL string) string {
	converter := md.NewConverter(baseURL, true, nil)
	converted, err := converter.ConvertString(html)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Markdown conversion failed, stripping tags instead")
		return stripHTMLTags(html)
	}
	if strings.TrimSpace(converted) == "" {
		return stripHTMLTags(html)
	}
	return converted
}

// exportFilename derives a filesystem-safe name from the source domain.
func exportFilename(source *models.Source) string {
	name := strings.ToLower(source.Domain)
	name = regexp.MustCompile(`[^a-z0-9.-]+`).ReplaceAllString(name, "-")
	if name == "" {
		name = "source"
	}
	return name + ".md"
}

// stripHTMLTags removes markup for fallback cases.
func stripHTMLTags(htmlStr string) string {
	stripped := regexp.MustCompile(`<[^>]*>`).ReplaceAllString(htmlStr, "")
	cleaned := regexp.MustCompile(`\s+`).ReplaceAllString(stripped, " ")

	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&lt;", "<")
	cleaned = strings.ReplaceAll(cleaned, "&gt;", ">")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "\"")
	cleaned = strings.ReplaceAll(cleaned, "&#39;", "'")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")

	return strings.TrimSpace(cleaned)
}
