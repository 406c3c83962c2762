package telegram

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"

	"TenantPilot/bot/chat"
	"TenantPilot/internal/lib/sl"
)

const platformName = "telegram"

// Bot is the Telegram transport: updates go straight to the chat controller,
// keyed by the Telegram user id as the session id.
type Bot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	controller  *chat.Controller
	messenger   *Messenger
}

func NewBot(botName, apiKey string, log *slog.Logger) (*Bot, error) {
	bot := &Bot{
		log:         log.With(sl.Module("tgbot")),
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	bot.api = api
	bot.messenger = NewMessenger(api)

	return bot, nil
}

// SetController sets the chat controller updates are routed to.
func (b *Bot) SetController(controller *chat.Controller) {
	b.controller = controller
}

// Start begins polling for updates and handling them.
func (b *Bot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", b.handleStart))
	dispatcher.AddHandler(handlers.NewMessage(message.Document, b.handleDocument))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))

	err := updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	b.log.Info("telegram bot started", slog.String("username", b.botUsername))

	updater.Idle()

	return nil
}

func sessionOf(ctx *ext.Context) (sessionID, chatID string) {
	return strconv.FormatInt(ctx.EffectiveUser.Id, 10),
		strconv.FormatInt(ctx.EffectiveChat.Id, 10)
}

// handleStart opens (or resumes) the onboarding session.
func (b *Bot) handleStart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.controller == nil {
		b.log.Warn("chat controller not initialized")
		return nil
	}

	sessionID, chatID := sessionOf(ctx)
	_, err := b.controller.OpenSession(context.Background(), b.messenger, platformName, sessionID, chatID, nil)
	if err != nil {
		b.log.Error("failed to open session",
			slog.String("session_id", sessionID),
			sl.Err(err),
		)
	}
	return err
}

func (b *Bot) handleMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.controller == nil {
		return nil
	}

	sessionID, _ := sessionOf(ctx)
	err := b.controller.HandleMessage(context.Background(), b.messenger, platformName, sessionID, ctx.EffectiveMessage.Text)
	if err != nil {
		b.log.Error("failed to handle message",
			slog.String("session_id", sessionID),
			sl.Err(err),
		)
	}
	return err
}

// handleDocument downloads an attached file and routes it to the upload
// entry point. The caption, if present, carries the document type.
func (b *Bot) handleDocument(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.controller == nil {
		return nil
	}

	sessionID, _ := sessionOf(ctx)
	doc := ctx.EffectiveMessage.Document

	file, err := b.api.GetFile(doc.FileId, nil)
	if err != nil {
		b.log.Error("failed to get file info",
			slog.String("session_id", sessionID),
			sl.Err(err),
		)
		return err
	}

	resp, err := http.Get(file.URL(b.api, nil))
	if err != nil {
		b.log.Error("failed to download file",
			slog.String("session_id", sessionID),
			sl.Err(err),
		)
		return err
	}
	defer resp.Body.Close()

	filename := doc.FileName
	if filename == "" {
		filename = doc.FileId
	}

	err = b.controller.HandleUpload(context.Background(), b.messenger, platformName, sessionID, filename, resp.Body, ctx.EffectiveMessage.Caption)
	if err != nil {
		b.log.Error("failed to handle upload",
			slog.String("session_id", sessionID),
			sl.Err(err),
		)
	}
	return err
}
