package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// articleContent is what the readability strategy yields for a page.
type articleContent struct {
	Title       string
	Authors     []string
	PublishDate string
	Text        string
	ContentHTML string
}

// extractArticle runs the reader-mode heuristic over the page body. It fails
// when the parser errors or distills no usable text, which hands the page to
// the markup fallback.
func extractArticle(rawURL string, body []byte) (*articleContent, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("readability parse: %w", err)
	}

	text := CleanText(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("readability produced no text content")
	}

	content := &articleContent{
		Title:       strings.TrimSpace(article.Title),
		Text:        text,
		ContentHTML: article.Content,
	}
	if article.Byline != "" {
		content.Authors = parseByline(article.Byline)
	}
	if article.PublishedTime != nil {
		content.PublishDate = article.PublishedTime.Format("2006-01-02")
	}

	return content, nil
}

// parseByline splits a byline like "Jane Doe and John Roe" or
// "A. One, B. Two" into individual author names.
func parseByline(byline string) []string {
	byline = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(byline), "By "))
	byline = strings.ReplaceAll(byline, " and ", ",")
	parts := strings.Split(byline, ",")

	var authors []string
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}
