package main

import (
	"flag"
	"log/slog"

	"TenantPilot/bot/chat"
	"TenantPilot/bot/telegram"
	"TenantPilot/impl/core"
	"TenantPilot/internal/config"
	repository "TenantPilot/internal/database"
	"TenantPilot/internal/http-server/api"
	"TenantPilot/internal/lib/logger"
	"TenantPilot/internal/lib/sl"
	"TenantPilot/internal/service/assistant"
	"TenantPilot/internal/service/auth"
	"TenantPilot/internal/service/document"
	"TenantPilot/internal/service/tenant"
	"TenantPilot/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting tenantpilot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}

	var storage chat.StateStorage
	if db != nil {
		handler.SetRepository(db)
		storage = chat.NewMongoStateStorage(db)
		if err := db.EnsureChatMessageIndexes(); err != nil {
			lg.With(
				sl.Err(err),
			).Error("chat message indexes")
		}
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	} else {
		storage = chat.NewMemoryStateStorage()
		lg.Warn("mongo disabled, session states are in-memory only")
	}

	tokens := auth.NewTokenProvider(conf, lg)

	tenantService := tenant.NewTenantService(conf, tokens, lg)
	documentService := document.NewDocumentService(conf, tokens, lg)
	assistantService := assistant.NewAssistantService(conf, tokens, lg)
	lg.With(
		slog.String("base_url", conf.Platform.BaseURL),
	).Info("platform services initialized")

	controller := chat.NewController(storage, tenantService, documentService, assistantService, conf.Platform.DefaultTenantID, lg)
	if db != nil {
		controller.SetArchive(db)
	}
	controller.SetMessageListener(handler)
	handler.SetController(controller)

	hub := ws.NewHub(lg.With(sl.Module("ws.hub")))
	handler.SetHub(hub)
	go hub.Run()

	if conf.Telegram.Enabled {
		tgBot, err := telegram.NewBot(conf.Telegram.BotName, conf.Telegram.ApiKey, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			tgBot.SetController(controller)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
