package core

import (
	"fmt"
	"log/slog"

	"TenantPilot/bot/chat"
	"TenantPilot/entity"
	"TenantPilot/internal/lib/sl"
	"TenantPilot/internal/ws"
)

// Repository defines the database operations the core depends on.
type Repository interface {
	SaveChatMessage(msg entity.ChatMessage) error
	GetChatMessages(platform, sessionID string, limit, offset int) ([]entity.ChatMessage, error)
	GetActiveSessions() ([]entity.SessionSummary, error)
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)
}

// Core glues the chat controller, storage and the operator console together.
// It is the Handler the HTTP server talks to and the MessageListener the
// controller reports transcripts to.
type Core struct {
	repo       Repository
	controller *chat.Controller
	hub        *ws.Hub
	authKey    string
	log        *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetController(controller *chat.Controller) {
	c.controller = controller
}

func (c *Core) SetHub(hub *ws.Hub) {
	c.hub = hub
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// AuthenticateByToken accepts the configured service key or any API key
// issued in the database.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if c.authKey != "" && token == c.authKey {
		return &entity.UserAuth{Username: "service", Key: token}, nil
	}

	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	username, err := c.repo.CheckApiKey(token)
	if err != nil {
		return nil, fmt.Errorf("api key check failed: %w", err)
	}

	return &entity.UserAuth{Username: username, Key: token}, nil
}

// SaveAndBroadcastChatMessage persists a transcript record and pushes it to
// every connected operator console. Persistence errors are logged, never
// surfaced into the chat flow.
func (c *Core) SaveAndBroadcastChatMessage(msg entity.ChatMessage) {
	if c.repo != nil {
		if err := c.repo.SaveChatMessage(msg); err != nil {
			c.log.With(
				slog.String("platform", msg.Platform),
				slog.String("session_id", msg.SessionID),
				sl.Err(err),
			).Error("saving chat message")
		}
	}
	if c.hub != nil {
		c.hub.BroadcastMessage(msg)
	}
}

// GenerateApiKey issues an API key for an operator-console user.
func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("repository is not set")
	}
	apiKey, err := c.repo.GenerateApiKey(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return apiKey, nil
}

func (c *Core) GetChatMessages(platform, sessionID string, limit, offset int) ([]entity.ChatMessage, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.GetChatMessages(platform, sessionID, limit, offset)
}

func (c *Core) GetActiveSessions() ([]entity.SessionSummary, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.GetActiveSessions()
}
