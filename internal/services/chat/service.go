package chat

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"github.com/ternarybob/colligo/internal/models"
	"github.com/ternarybob/colligo/internal/services/retrieval"
)

// Answer is the result of one question: the generated text plus the sources
// and images that informed it.
type Answer struct {
	Text    string
	Sources []string
	Images  []models.Image
	Elapsed time.Duration
}

// Service answers questions over the ingested sources. It owns the rolling
// conversation history; the chat log is persisted through storage.
type Service struct {
	sources    interfaces.SourceStorage
	chatLog    interfaces.ChatStorage
	retriever  *retrieval.Retriever
	completion interfaces.CompletionService
	logger     arbor.ILogger

	historyWindow int
	historyCap    int
	maxImages     int
	history       []models.ConversationTurn
}

// NewService creates the question-answering service.
func NewService(
	sources interfaces.SourceStorage,
	chatLog interfaces.ChatStorage,
	retriever *retrieval.Retriever,
	completion interfaces.CompletionService,
	config *common.RetrievalConfig,
	logger arbor.ILogger,
) *Service {
	window := config.HistoryWindow
	if window <= 0 {
		window = 10
	}
	historyCap := config.HistoryCap
	if historyCap <= 0 {
		historyCap = 20
	}
	maxImages := config.MaxImages
	if maxImages <= 0 {
		maxImages = 3
	}

	return &Service{
		sources:       sources,
		chatLog:       chatLog,
		retriever:     retriever,
		completion:    completion,
		logger:        logger,
		historyWindow: window,
		historyCap:    historyCap,
		maxImages:     maxImages,
	}
}

// Ask answers one question: retrieve context from the indexed sources,
// complete with the rolling history window, rank related images from the
// contributing sources, and record the exchange.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	start := time.Now()

	catalog, err := s.sources.ListSources()
	if err != nil {
		return nil, err
	}

	// Failed sources have no index and never contribute.
	indexed := catalog[:0:0]
	for _, source := range catalog {
		if source.Status != models.SourceStatusFailed {
			indexed = append(indexed, source)
		}
	}

	result, err := s.retriever.Retrieve(ctx, question, indexed)
	if err != nil {
		return nil, err
	}

	s.appendHistory(models.RoleUser, question)

	var text string
	var contributing []*models.Source
	if result.Context == "" {
		// No relevant chunks anywhere: answer without a completion call.
		text = insufficientInfoMessage
	} else {
		contributing = result.Sources
		text = s.complete(ctx, result.Context)
	}

	s.appendHistory(models.RoleAssistant, text)

	images := s.rankImages(question, contributing)

	answer := &Answer{
		Text:    text,
		Sources: sourceURLs(contributing),
		Images:  images,
		Elapsed: time.Since(start),
	}

	s.record(question, answer)

	s.logger.Debug().
		Int("sources", len(answer.Sources)).
		Int("images", len(images)).
		Dur("elapsed", answer.Elapsed).
		Msg("Question answered")

	return answer, nil
}

// History returns a copy of the rolling conversation history.
func (s *Service) History() []models.ConversationTurn {
	out := make([]models.ConversationTurn, len(s.history))
	copy(out, s.history)
	return out
}

// Entries returns the persisted chat log.
func (s *Service) Entries() ([]*models.ChatEntry, error) {
	return s.chatLog.ListEntries()
}

// Reset clears the in-memory conversation history.
func (s *Service) Reset() {
	s.history = nil
}

// complete calls the provider with the last historyWindow turns. Transport
// failures substitute the fixed apology rather than surfacing an error.
func (s *Service) complete(ctx context.Context, retrievalContext string) string {
	window := s.history
	if len(window) > s.historyWindow {
		window = window[len(window)-s.historyWindow:]
	}

	messages := make([]interfaces.Message, len(window))
	for i, turn := range window {
		messages[i] = interfaces.Message{Role: turn.Role, Content: turn.Content}
	}

	text, err := s.completion.Complete(ctx, buildSystemPrompt(retrievalContext), messages)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", s.completion.Provider()).Msg("Completion failed")
		return apologyMessage
	}
	return text
}

func (s *Service) appendHistory(role, content string) {
	s.history = append(s.history, models.ConversationTurn{Role: role, Content: content})
	if len(s.history) > s.historyCap {
		s.history = s.history[len(s.history)-s.historyCap:]
	}
}

// rankImages collects relevant images across the contributing sources.
func (s *Service) rankImages(question string, contributing []*models.Source) []models.Image {
	var images []models.Image
	for _, source := range contributing {
		images = append(images, retrieval.RankImages(question, source.Images, s.maxImages)...)
	}
	return images
}

func (s *Service) record(question string, answer *Answer) {
	entry := &models.ChatEntry{
		ID:         common.NewChatEntryID(),
		Question:   question,
		Answer:     answer.Text,
		Sources:    answer.Sources,
		ImagePaths: imagePaths(answer.Images),
		Elapsed:    answer.Elapsed,
		CreatedAt:  time.Now(),
	}
	if err := s.chatLog.AppendEntry(entry); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist chat entry")
	}
}

func sourceURLs(sources []*models.Source) []string {
	urls := make([]string, len(sources))
	for i, source := range sources {
		urls[i] = source.URL
	}
	return urls
}

func imagePaths(images []models.Image) []string {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		if img.LocalPath != "" {
			paths = append(paths, img.LocalPath)
		}
	}
	return paths
}
