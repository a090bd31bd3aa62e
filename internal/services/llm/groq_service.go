package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/colligo/internal/common"
	"github.com/ternarybob/colligo/internal/interfaces"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqService implements CompletionService against Groq's OpenAI-compatible
// API. This is the default provider: fast and cheap for chat completion.
type GroqService struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewGroqService creates a Groq completion service.
func NewGroqService(config *common.LLMConfig, logger arbor.ILogger) (*GroqService, error) {
	if config.GroqAPIKey == "" {
		return nil, fmt.Errorf("Groq API key is required (set GROQ_API_KEY or llm.groq_api_key in config)")
	}

	model := config.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	timeout, err := parseTimeout(config.Timeout)
	if err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(config.GroqAPIKey)
	clientConfig.BaseURL = groqBaseURL

	service := &GroqService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: float32(config.Temperature),
		maxTokens:   config.MaxTokens,
		timeout:     timeout,
		logger:      logger,
	}

	logger.Debug().
		Str("model", model).
		Dur("timeout", timeout).
		Msg("Groq completion service initialized")

	return service, nil
}

// Complete generates an answer from the system prompt and conversation history.
func (s *GroqService) Complete(ctx context.Context, systemPrompt string, history []interfaces.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("Groq API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned from Groq API")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("empty completion returned from Groq API")
	}

	s.logger.Debug().
		Int("message_count", len(messages)).
		Int("response_length", len(answer)).
		Dur("duration", time.Since(start)).
		Msg("Groq completion succeeded")

	return answer, nil
}

func (s *GroqService) Provider() string {
	return string(common.LLMProviderGroq)
}

func (s *GroqService) Close() error {
	s.client = nil
	return nil
}
