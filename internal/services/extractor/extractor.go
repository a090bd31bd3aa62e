package extractor

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/models"
)

// Metadata is the record harvested alongside a page's content. Optional
// fields stay empty when the page does not supply them.
type Metadata struct {
	Title       string
	Authors     []string
	PublishDate string
	Description string
	Keywords    string
	Domain      string
	ArticleHTML string
}

// Result carries the assembled labeled content block and its metadata.
type Result struct {
	Content  string
	Metadata Metadata
}

// Service runs the extraction chain: the readability article strategy first,
// enriched with a raw-markup harvest, falling back to pure markup parsing
// when the article reader fails. Only when both strategies fail does Extract
// return a models.ExtractionError.
type Service struct {
	logger arbor.ILogger
}

// NewService creates an extraction service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Extract parses one already-fetched page body. The same body feeds the
// article strategy, the enrichment harvest, and the markup fallback, so a
// page is fetched exactly once per ingestion.
func (s *Service) Extract(ctx context.Context, url string, body []byte) (*Result, error) {
	domain := common.Domain(url)

	article, articleErr := extractArticle(url, body)
	if articleErr == nil {
		result := &Result{
			Metadata: Metadata{
				Title:       article.Title,
				Authors:     article.Authors,
				PublishDate: article.PublishDate,
				Domain:      domain,
				ArticleHTML: article.ContentHTML,
			},
		}

		harvest, harvestErr := harvestMarkup(body)
		if harvestErr != nil {
			// Degrade to title + body only rather than failing the source.
			s.logger.Warn().Err(harvestErr).Str("url", url).Msg("Enrichment harvest failed, using article content only")
			result.Content = assembleMinimal(article.Title, article.Text)
			return result, nil
		}

		result.Metadata.Description = harvest.Description
		result.Metadata.Keywords = harvest.Keywords
		result.Content = assemble(article.Title, harvest.Description, harvest.Headings, article.Text, harvest.Tables, harvest.Lists)

		s.logger.Debug().
			Str("url", url).
			Int("headings", len(harvest.Headings)).
			Int("tables", len(harvest.Tables)).
			Int("lists", len(harvest.Lists)).
			Msg("Article extraction succeeded")

		return result, nil
	}

	s.logger.Debug().Err(articleErr).Str("url", url).Msg("Article strategy failed, falling back to markup parsing")

	fallback, markupErr := extractMarkup(body)
	if markupErr != nil {
		return nil, &models.ExtractionError{URL: url, Err: markupErr}
	}

	return &Result{
		Content: assembleMinimal(fallback.Title, fallback.BodyText),
		Metadata: Metadata{
			Title:  fallback.Title,
			Domain: domain,
		},
	}, nil
}
