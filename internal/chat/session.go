package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"docverify/internal/logger"
)

const (
	// maxHistoryMessages bounds the conversation window sent with each
	// request; older exchanges are dropped oldest-first.
	maxHistoryMessages = 20

	// maxContextBytes bounds the document context in the system prompt.
	maxContextBytes = 48_000
)

const systemPromptTemplate = `You are an assistant answering questions about a batch of verified documents.
The extracted text of every document follows. Answer only from this text; if the answer is not in the documents, say so.

%s`

// Session is one conversation over a batch's extracted text. It is not
// safe for concurrent use.
type Session struct {
	client   *openai.Client
	store    *Store
	model    string
	fallback string
	history  []openai.ChatCompletionMessage
	log      zerolog.Logger
}

// NewSession creates a conversation over the store using the given
// primary and fallback chat models.
func NewSession(apiKey string, store *Store, model, fallback string) (*Session, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for chat")
	}
	return &Session{
		client:   openai.NewClient(apiKey),
		store:    store,
		model:    model,
		fallback: fallback,
		log:      logger.WithComponent("chat"),
	}, nil
}

// Ask sends one question and returns the model's answer. The exchange is
// appended to the bounded history so follow-up questions keep context.
// If the primary model fails the fallback model is tried once.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(s.history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, s.store.ContextText(maxContextBytes)),
	})
	messages = append(messages, s.history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	answer, err := s.complete(ctx, s.model, messages)
	if err != nil && s.fallback != "" && s.fallback != s.model {
		s.log.Warn().Err(err).
			Str("model", s.model).
			Str("fallback", s.fallback).
			Msg("primary model failed, trying fallback")
		answer, err = s.complete(ctx, s.fallback, messages)
	}
	if err != nil {
		return "", err
	}

	s.history = append(s.history,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer},
	)
	if len(s.history) > maxHistoryMessages {
		s.history = s.history[len(s.history)-maxHistoryMessages:]
	}
	return answer, nil
}

func (s *Session) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from model %s", model)
	}
	return resp.Choices[0].Message.Content, nil
}
