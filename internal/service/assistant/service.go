package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"TenantPilot/entity"
	"TenantPilot/internal/config"
	"TenantPilot/internal/lib/sl"
)

// TokenProvider hands out a fresh bearer token for each call.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type chatRequest struct {
	Message             string                       `json:"message"`
	ConversationHistory []entity.ConversationMessage `json:"conversation_history"`
}

type ChatResponse struct {
	Success bool             `json:"success"`
	Reply   entity.ChatReply `json:"data"`
	Message string           `json:"message"`
}

// Service answers free-form business questions through the platform chat
// endpoint, falling back to a direct model call when the endpoint is down.
type Service struct {
	ChatURL  string
	tokens   TokenProvider
	client   *http.Client
	fallback *Fallback
	Log      *slog.Logger
}

func NewAssistantService(conf *config.Config, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		ChatURL:  conf.Platform.ChatURL,
		tokens:   tokens,
		client:   &http.Client{Timeout: time.Duration(conf.Platform.TimeoutSeconds) * time.Second},
		fallback: NewFallback(conf, logger),
		Log:      logger.With(sl.Module("assistant service")),
	}
}

func (r *Service) Chat(ctx context.Context, message string, history []entity.ConversationMessage) (*entity.ChatReply, error) {
	reply, err := r.chatPlatform(ctx, message, history)
	if err == nil {
		return reply, nil
	}

	if r.fallback == nil || !r.fallback.Available() {
		return nil, err
	}

	r.Log.With(
		sl.Err(err),
	).Warn("platform chat failed, using fallback model")

	return r.fallback.Chat(ctx, message, history)
}

func (r *Service) chatPlatform(ctx context.Context, message string, history []entity.ConversationMessage) (*entity.ChatReply, error) {
	if r.ChatURL == "" {
		return nil, fmt.Errorf("chat endpoint is not configured")
	}

	requestBody, err := json.Marshal(chatRequest{
		Message:             message,
		ConversationHistory: history,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.ChatURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var response ChatResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("response indicated failure: %s", response.Message)
	}

	r.Log.With(
		slog.Int("history", len(history)),
		slog.Int("knowledge", len(response.Reply.KnowledgeExtracted)),
	).Debug("chat turn")

	return &response.Reply, nil
}
