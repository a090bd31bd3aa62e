package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createIngestWebsitesTool returns the ingest_websites tool definition
func createIngestWebsitesTool() mcp.Tool {
	return mcp.NewTool("ingest_websites",
		mcp.WithDescription("Ingest one or more website URLs into the knowledge base. Replaces any previously ingested corpus."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.WithStringItems(),
			mcp.Description("Website URLs to fetch, extract, and index"),
		),
	)
}

// createAskTool returns the ask tool definition
func createAskTool() mcp.Tool {
	return mcp.NewTool("ask",
		mcp.WithDescription("Ask a question over the ingested websites. Answers are grounded in retrieved page content."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural-language question about the ingested websites"),
		),
	)
}

// createListSourcesTool returns the list_sources tool definition
func createListSourcesTool() mcp.Tool {
	return mcp.NewTool("list_sources",
		mcp.WithDescription("List ingested websites with their status, chunk counts, and downloaded images"),
	)
}

// createClearDataTool returns the clear_data tool definition
func createClearDataTool() mcp.Tool {
	return mcp.NewTool("clear_data",
		mcp.WithDescription("Remove all ingested sources, vector indexes, and cached images"),
	)
}
