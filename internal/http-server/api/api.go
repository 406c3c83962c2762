package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"TenantPilot/internal/config"
	"TenantPilot/internal/http-server/handlers/chatbot"
	"TenantPilot/internal/http-server/handlers/errors"
	"TenantPilot/internal/http-server/handlers/key"
	"TenantPilot/internal/http-server/middleware/authenticate"
	"TenantPilot/internal/http-server/middleware/timeout"
	"TenantPilot/internal/lib/sl"
	"TenantPilot/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	chatbot.Core
	key.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(60))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// Console connections carry their token as a query parameter.
	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Group(func(g chi.Router) {
		g.Use(render.SetContentType(render.ContentTypeJSON))
		g.Use(authenticate.New(log, handler))

		g.Route("/api/v1", func(v1 chi.Router) {
			v1.Route("/chat", func(r chi.Router) {
				r.Post("/open", chatbot.Open(log, handler))
				r.Post("/message", chatbot.Message(log, handler))
				r.Post("/upload", chatbot.Upload(log, handler))
				r.Get("/sessions", chatbot.Sessions(log, handler))
				r.Get("/{platform}/{session_id}/messages", chatbot.Transcript(log, handler))
			})
			v1.Route("/key", func(r chi.Router) {
				r.Post("/new", key.Generate(log, handler))
			})
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
