package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/colligo/internal/models"
	"github.com/ternarybob/colligo/internal/services/chat"
)

// formatIngestResult formats a batch ingestion outcome as markdown
func formatIngestResult(urls []string, failures map[string]error) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Ingestion Complete (%d of %d succeeded)\n\n",
		len(urls)-len(failures), len(urls)))

	for i, url := range urls {
		if err, failed := failures[url]; failed {
			sb.WriteString(fmt.Sprintf("%d. %s - FAILED: %v\n", i+1, url, err))
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. %s - ok\n", i+1, url))
	}

	return sb.String()
}

// formatAnswer formats a chat answer as markdown
func formatAnswer(answer *chat.Answer) string {
	var sb strings.Builder
	sb.WriteString(answer.Text)
	sb.WriteString("\n")

	if len(answer.Sources) > 0 {
		sb.WriteString(fmt.Sprintf("\n**Sources:** %s\n", strings.Join(answer.Sources, ", ")))
	}
	if len(answer.Images) > 0 {
		sb.WriteString("\n**Related images:**\n")
		for _, img := range answer.Images {
			sb.WriteString(fmt.Sprintf("- %s\n", img.LocalPath))
		}
	}
	sb.WriteString(fmt.Sprintf("\n_(answered in %.1fs)_\n", answer.Elapsed.Seconds()))

	return sb.String()
}

// formatSources formats the source catalog as markdown
func formatSources(catalog []*models.Source) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Ingested Sources (%d)\n\n", len(catalog)))

	if len(catalog) == 0 {
		sb.WriteString("No sources ingested. Use ingest_websites to get started.\n")
		return sb.String()
	}

	for i, source := range catalog {
		if source.Status == models.SourceStatusFailed {
			sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, source.URL))
			sb.WriteString(fmt.Sprintf("**Status:** failed - %s\n\n", source.Error))
			continue
		}

		title := source.Title
		if title == "" {
			title = "(untitled)"
		}
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("**URL:** %s\n", source.URL))
		sb.WriteString(fmt.Sprintf("**Domain:** %s\n", source.Domain))
		sb.WriteString(fmt.Sprintf("**Chunks:** %d\n", source.ChunkCount))
		sb.WriteString(fmt.Sprintf("**Images:** %d\n", len(source.Images)))
		sb.WriteString(fmt.Sprintf("**Ingested:** %s\n\n", source.CreatedAt.Format(time.RFC3339)))
	}

	return sb.String()
}
