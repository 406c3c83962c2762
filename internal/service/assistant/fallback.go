package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"TenantPilot/entity"
	"TenantPilot/internal/config"
	"TenantPilot/internal/lib/sl"
)

const fallbackSystemPrompt = "You are a helpful onboarding assistant for a business accounting platform. " +
	"Answer the user's questions about setting up their company concisely. " +
	"You have no access to their account data, so never invent balances or records."

// Fallback answers conversation turns directly through the model when the
// platform chat endpoint is unavailable. It extracts no knowledge.
type Fallback struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func NewFallback(conf *config.Config, logger *slog.Logger) *Fallback {
	f := &Fallback{
		model: conf.OpenAI.Model,
		log:   logger.With(sl.Module("assistant fallback")),
	}
	if conf.OpenAI.ApiKey != "" {
		f.client = openai.NewClient(conf.OpenAI.ApiKey)
	}
	return f
}

func (f *Fallback) Available() bool {
	return f != nil && f.client != nil
}

func (f *Fallback) Chat(ctx context.Context, message string, history []entity.ConversationMessage) (*entity.ChatReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fallbackSystemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == entity.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	if len(history) == 0 || history[len(history)-1].Content != message {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: message,
		})
	}

	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    f.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat completion: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	f.log.With(
		slog.String("model", f.model),
		slog.Int("history", len(history)),
	).Debug("fallback completion")

	return &entity.ChatReply{Response: resp.Choices[0].Message.Content}, nil
}
