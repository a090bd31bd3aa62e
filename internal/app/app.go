package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/services/chat"
	"github.com/ternarybob/colligo/internal/services/chunker"
	"github.com/ternarybob/colligo/internal/services/embeddings"
	"github.com/ternarybob/colligo/internal/services/export"
	"github.com/ternarybob/colligo/internal/services/extractor"
	"github.com/ternarybob/colligo/internal/services/fetcher"
	"github.com/ternarybob/colligo/internal/services/images"
	"github.com/ternarybob/colligo/internal/services/index"
	"github.com/ternarybob/colligo/internal/services/ingest"
	"github.com/ternarybob/colligo/internal/services/llm"
	"github.com/ternarybob/colligo/internal/services/retrieval"
	storage "github.com/ternarybob/colligo/internal/storage/badger"
)

// App holds all application components and dependencies.
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	StorageManager interfaces.StorageManager

	EmbeddingService interfaces.EmbeddingService
	IndexManager     *index.Manager

	IngestService *ingest.Service
	ExportService *export.Service
	Retriever     *retrieval.Retriever

	// CompletionService and ChatService are nil when no completion provider
	// is configured; ingestion still works without them.
	CompletionService interfaces.CompletionService
	ChatService       *chat.Service
}

// New initializes the application with all dependencies. Construction order:
// storage, embeddings, indexes, ingestion pipeline, then the answering stack.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewManager(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	embedder, err := embeddings.NewService(&cfg.Embedding, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize embeddings: %w", err)
	}
	app.EmbeddingService = embedder

	app.IndexManager = index.NewManager(&cfg.Storage, embedder, logger)

	app.IngestService = ingest.NewService(
		cfg,
		fetcher.New(&cfg.Fetcher, logger),
		extractor.NewService(logger),
		images.NewPipeline(cfg, logger),
		chunker.New(&cfg.Chunking, logger),
		app.IndexManager,
		storageManager.SourceStorage(),
		logger,
	)
	app.ExportService = export.NewService(logger)
	app.Retriever = retrieval.New(app.IndexManager, &cfg.Retrieval, logger)

	completion, err := llm.NewService(&cfg.LLM, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Completion provider unavailable, questions are disabled")
	} else {
		app.CompletionService = completion
		app.ChatService = chat.NewService(
			storageManager.SourceStorage(),
			storageManager.ChatStorage(),
			app.Retriever,
			completion,
			&cfg.Retrieval,
			logger,
		)
	}

	logger.Info().
		Str("embedding_provider", cfg.Embedding.Provider).
		Str("llm_provider", string(cfg.LLM.Provider)).
		Bool("chat_enabled", app.ChatService != nil).
		Msg("Application initialization complete")

	return app, nil
}

// Close tears down the application in reverse construction order.
func (a *App) Close() error {
	var firstErr error

	if a.CompletionService != nil {
		if err := a.CompletionService.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.IndexManager != nil {
		if err := a.IndexManager.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.Logger.Debug().Msg("Application closed")
	return firstErr
}
