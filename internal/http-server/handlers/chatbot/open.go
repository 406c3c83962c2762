package chatbot

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/api/response"
	"TenantPilot/internal/lib/sl"
)

type OpenRequest struct {
	Platform  string `json:"platform" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
	ChatID    string `json:"chat_id"`

	// The hosting page can pass the tenant it already knows, saving the
	// resolver a who-am-I round trip.
	TenantID    string `json:"tenant_id"`
	CompanyName string `json:"company_name"`
}

// Open starts or resumes an onboarding session.
func Open(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chatbot")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req OpenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			logger.Error("invalid open request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("platform and session_id are required"))
			return
		}
		if req.ChatID == "" {
			req.ChatID = req.SessionID
		}

		logger = logger.With(
			slog.String("platform", req.Platform),
			slog.String("session_id", req.SessionID),
		)

		var hint *entity.Tenant
		if req.TenantID != "" {
			hint = &entity.Tenant{ID: req.TenantID, CompanyName: req.CompanyName}
		}

		replies, err := handler.OpenChat(r.Context(), req.Platform, req.SessionID, req.ChatID, hint)
		if err != nil {
			logger.Error("open chat", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to open session"))
			return
		}
		logger.Debug("chat opened")

		render.JSON(w, r, response.Ok(replies))
	}
}
