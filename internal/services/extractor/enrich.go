package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// harvestResult holds the structural content the article reader does not
// provide: headings, meta tags, tables, and lists.
type harvestResult struct {
	Headings    []string
	Description string
	Keywords    string
	Tables      []string
	Lists       []string
}

// harvestMarkup walks the raw HTML tree for structure worth indexing
// alongside the article body.
func harvestMarkup(body []byte) (*harvestResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	doc.Find(enrichStripSelector).Remove()

	result := &harvestResult{
		Headings: harvestHeadings(doc),
		Tables:   harvestTables(doc),
		Lists:    harvestLists(doc),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		result.Description = strings.TrimSpace(desc)
	}
	if keywords, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		result.Keywords = strings.TrimSpace(keywords)
	}

	return result, nil
}

// harvestHeadings collects h1-h3 text longer than 3 characters, deduplicated
// by exact match, each prefixed with its tag name in uppercase.
func harvestHeadings(doc *goquery.Document) []string {
	var headings []string
	seen := make(map[string]bool)

	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= 3 || seen[text] {
			return
		}
		seen[text] = true
		headings = append(headings, strings.ToUpper(goquery.NodeName(sel))+": "+text)
	})

	return headings
}

// harvestTables renders each table with at least one parsed row as
// pipe-delimited lines under an auto-numbered title, overridden by the
// table's caption when present.
func harvestTables(doc *goquery.Document) []string {
	var tables []string

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		var rows []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, " | "))
			}
		})
		if len(rows) == 0 {
			return
		}

		title := fmt.Sprintf("Table %d", i+1)
		if caption := strings.TrimSpace(table.Find("caption").First().Text()); caption != "" {
			title = fmt.Sprintf("Table %d: %s", i+1, caption)
		}

		tables = append(tables, title+"\n"+strings.Join(rows, "\n")+"\n")
	})

	return tables
}

// navListClasses mark lists used for site navigation rather than content.
var navListClasses = []string{"nav", "menu", "navigation"}

// harvestLists renders lists with at least 3 items, skipping navigation
// lists, as typed bulleted or numbered blocks.
func harvestLists(doc *goquery.Document) []string {
	var lists []string

	doc.Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		items := list.Find("li")
		if items.Length() < 3 {
			return
		}
		if isNavList(list) {
			return
		}

		ordered := goquery.NodeName(list) == "ol"
		var sb strings.Builder
		if ordered {
			sb.WriteString("Numbered List:\n")
		} else {
			sb.WriteString("Bulleted List:\n")
		}
		items.Each(func(idx int, li *goquery.Selection) {
			text := strings.TrimSpace(li.Text())
			if ordered {
				sb.WriteString(fmt.Sprintf("%d. %s\n", idx+1, text))
			} else {
				sb.WriteString("• " + text + "\n")
			}
		})

		lists = append(lists, sb.String())
	})

	return lists
}

func isNavList(list *goquery.Selection) bool {
	class, _ := list.Attr("class")
	for _, field := range strings.Fields(class) {
		for _, nav := range navListClasses {
			if field == nav {
				return true
			}
		}
	}
	return false
}
