package extractor

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// markupContent is what the raw-markup fallback yields for a page.
type markupContent struct {
	Title    string
	BodyText string
}

// Tag sets stripped before text harvesting. The fallback keeps nav and aside
// because without the article reader they may hold the only usable text.
var (
	enrichStripSelector   = "script, style, noscript, iframe, footer, nav, aside"
	fallbackStripSelector = "script, style, noscript, iframe, footer"
)

// extractMarkup is the last-resort strategy: strip non-content tags and take
// the page title and body text directly from the HTML tree.
func extractMarkup(body []byte) (*markupContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	doc.Find(fallbackStripSelector).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "Unknown Title"
	}

	bodyText := CleanText(doc.Find("body").Text())
	if bodyText == "" {
		return nil, fmt.Errorf("page has no body text")
	}

	return &markupContent{Title: title, BodyText: bodyText}, nil
}

var (
	multiNewline = regexp.MustCompile(`\n+`)
	multiSpace   = regexp.MustCompile(`[ \t]+`)
)

// CleanText collapses repeated line breaks and runs of spaces, then trims.
func CleanText(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
