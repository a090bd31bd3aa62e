package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/app"
)

// handleIngestWebsites implements the ingest_websites tool
func handleIngestWebsites(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse urls parameter (required)
		urls := request.GetStringSlice("urls", nil)
		if len(urls) == 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: urls parameter is required"),
				},
			}, nil
		}

		failures, err := application.IngestService.ProcessBatch(ctx, urls, nil)
		if err != nil {
			logger.Error().Err(err).Msg("Ingestion failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Ingestion error: %v", err)),
				},
			}, nil
		}

		// Conversation context refers to the old corpus; start fresh.
		if application.ChatService != nil {
			application.ChatService.Reset()
		}

		markdown := formatIngestResult(urls, failures)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleAsk implements the ask tool
func handleAsk(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Parse question parameter (required)
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("Error: question parameter is required"),
				},
			}, nil
		}

		if application.ChatService == nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("No completion provider configured. Set GROQ_API_KEY, ANTHROPIC_API_KEY, or GEMINI_API_KEY."),
				},
			}, nil
		}

		answer, err := application.ChatService.Ask(ctx, question)
		if err != nil {
			logger.Error().Err(err).Msg("Ask failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Ask error: %v", err)),
				},
			}, nil
		}

		markdown := formatAnswer(answer)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleListSources implements the list_sources tool
func handleListSources(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		catalog, err := application.StorageManager.SourceStorage().ListSources()
		if err != nil {
			logger.Error().Err(err).Msg("List sources failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("List error: %v", err)),
				},
			}, nil
		}

		markdown := formatSources(catalog)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(markdown),
			},
		}, nil
	}
}

// handleClearData implements the clear_data tool
func handleClearData(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := application.IngestService.ClearAll(); err != nil {
			logger.Error().Err(err).Msg("Clear data failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(fmt.Sprintf("Clear error: %v", err)),
				},
			}, nil
		}
		if application.ChatService != nil {
			application.ChatService.Reset()
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent("All ingested data removed."),
			},
		}, nil
	}
}
