package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements CompletionService using the Google Gemini API.
type GeminiService struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewGeminiService creates a Gemini completion service.
func NewGeminiService(config *common.LLMConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set COLLIGO_GEMINI_API_KEY or llm.gemini_api_key in config)")
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	timeout, err := parseTimeout(config.Timeout)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	service := &GeminiService{
		client:      client,
		model:       model,
		temperature: float32(config.Temperature),
		maxTokens:   config.MaxTokens,
		timeout:     timeout,
		logger:      logger,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Msg("Gemini completion service initialized")

	return service, nil
}

// Complete generates an answer from the system prompt and conversation history.
func (s *GeminiService) Complete(ctx context.Context, systemPrompt string, history []interfaces.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("history cannot be empty for chat completion")
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.temperature),
	}
	if s.maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(s.maxTokens)
	}
	if systemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response generated from Gemini API")
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("empty response generated from Gemini API")
	}

	s.logger.Debug().
		Int("message_count", len(contents)).
		Int("response_length", len(answer)).
		Dur("duration", time.Since(start)).
		Msg("Gemini completion succeeded")

	return answer, nil
}

func (s *GeminiService) Provider() string {
	return string(common.LLMProviderGemini)
}

func (s *GeminiService) Close() error {
	s.client = nil
	return nil
}
