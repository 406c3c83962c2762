package chatbot

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"TenantPilot/internal/lib/api/response"
	"TenantPilot/internal/lib/sl"
)

type MessageRequest struct {
	Platform  string `json:"platform" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
	Text      string `json:"text" validate:"required"`
}

// Message routes one user message through the assistant.
func Message(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chatbot")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req MessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			logger.Error("invalid message request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("platform, session_id and text are required"))
			return
		}

		logger = logger.With(
			slog.String("platform", req.Platform),
			slog.String("session_id", req.SessionID),
		)

		replies, err := handler.SendChatMessage(r.Context(), req.Platform, req.SessionID, req.Text)
		if err != nil {
			logger.Error("chat message", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to process message"))
			return
		}
		logger.Debug("chat message handled")

		render.JSON(w, r, response.Ok(replies))
	}
}
