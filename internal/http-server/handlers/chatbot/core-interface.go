package chatbot

import (
	"context"
	"io"

	"TenantPilot/entity"
)

// Core defines the methods required by the web chat handlers.
type Core interface {
	// OpenChat opens or resumes an onboarding session and returns the
	// assistant's opening replies. A non-nil hint names the tenant the
	// caller already knows to be active.
	OpenChat(ctx context.Context, platform, sessionID, chatID string, hint *entity.Tenant) ([]entity.BotReply, error)

	// SendChatMessage routes one user message and returns the replies.
	SendChatMessage(ctx context.Context, platform, sessionID, text string) ([]entity.BotReply, error)

	// UploadChatDocument routes one file upload and returns the replies.
	UploadChatDocument(ctx context.Context, platform, sessionID, filename string, file io.Reader, docType string) ([]entity.BotReply, error)

	// GetChatMessages returns transcript records for a session, newest first.
	GetChatMessages(platform, sessionID string, limit, offset int) ([]entity.ChatMessage, error)

	// GetActiveSessions returns operator-console session summaries.
	GetActiveSessions() ([]entity.SessionSummary, error)
}
