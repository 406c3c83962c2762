package core

import (
	"context"
	"fmt"
	"io"

	"TenantPilot/entity"
	"TenantPilot/internal/ws"
)

// collector is the web Messenger: replies are gathered and returned in the
// HTTP response instead of being pushed to a transport. Typing indicators go
// to the operator console, if one is attached.
type collector struct {
	hub       *ws.Hub
	platform  string
	sessionID string
	replies   []entity.BotReply
}

func (m *collector) SendText(chatID, text string) error {
	m.replies = append(m.replies, entity.BotReply{Text: text})
	return nil
}

func (m *collector) SendMenu(chatID, text string, options []entity.ChatOption) error {
	m.replies = append(m.replies, entity.BotReply{Text: text, Options: options})
	return nil
}

func (m *collector) SendTyping(chatID string) error {
	if m.hub != nil {
		m.hub.BroadcastTyping(m.platform, m.sessionID)
	}
	return nil
}

func (c *Core) newCollector(platform, sessionID string) *collector {
	return &collector{hub: c.hub, platform: platform, sessionID: sessionID}
}

// OpenChat opens or resumes an onboarding session for a web client. The
// optional hint carries the tenant the hosting page already knows.
func (c *Core) OpenChat(ctx context.Context, platform, sessionID, chatID string, hint *entity.Tenant) ([]entity.BotReply, error) {
	if c.controller == nil {
		return nil, fmt.Errorf("chat controller is not set")
	}

	m := c.newCollector(platform, sessionID)
	state, err := c.controller.OpenSession(ctx, m, platform, sessionID, chatID, hint)
	if err != nil {
		return nil, err
	}

	if c.hub != nil && state != nil {
		c.hub.BroadcastSessionOpened(platform, sessionID, string(state.Mode))
	}

	return m.replies, nil
}

// SendChatMessage routes one user message and returns the replies.
func (c *Core) SendChatMessage(ctx context.Context, platform, sessionID, text string) ([]entity.BotReply, error) {
	if c.controller == nil {
		return nil, fmt.Errorf("chat controller is not set")
	}

	m := c.newCollector(platform, sessionID)
	if err := c.controller.HandleMessage(ctx, m, platform, sessionID, text); err != nil {
		return nil, err
	}
	return m.replies, nil
}

// UploadChatDocument routes one file submission and returns the replies.
func (c *Core) UploadChatDocument(ctx context.Context, platform, sessionID, filename string, file io.Reader, docType string) ([]entity.BotReply, error) {
	if c.controller == nil {
		return nil, fmt.Errorf("chat controller is not set")
	}

	m := c.newCollector(platform, sessionID)
	if err := c.controller.HandleUpload(ctx, m, platform, sessionID, filename, file, docType); err != nil {
		return nil, err
	}
	return m.replies, nil
}
