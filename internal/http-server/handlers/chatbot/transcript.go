package chatbot

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/api/response"
)

// Sessions returns operator-console summaries, most recently active first.
func Sessions(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := handler.GetActiveSessions()
		if err != nil {
			log.Error("failed to get active sessions", slog.String("error", err.Error()))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get sessions"))
			return
		}

		if sessions == nil {
			sessions = []entity.SessionSummary{}
		}

		render.JSON(w, r, response.Ok(sessions))
	}
}

// Transcript returns paginated transcript records for one session.
func Transcript(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := chi.URLParam(r, "platform")
		sessionID := chi.URLParam(r, "session_id")

		if platform == "" || sessionID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("platform and session_id are required"))
			return
		}

		limit := 50
		offset := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
				limit = v
			}
		}
		if o := r.URL.Query().Get("offset"); o != "" {
			if v, err := strconv.Atoi(o); err == nil && v >= 0 {
				offset = v
			}
		}

		messages, err := handler.GetChatMessages(platform, sessionID, limit, offset)
		if err != nil {
			log.Error("failed to get transcript",
				slog.String("platform", platform),
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get transcript"))
			return
		}

		if messages == nil {
			messages = []entity.ChatMessage{}
		}

		render.JSON(w, r, response.Ok(messages))
	}
}
