package key

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"TenantPilot/internal/lib/api/response"
	"TenantPilot/internal/lib/sl"
)

// Core defines the methods required by the key handlers.
type Core interface {
	GenerateApiKey(username string) (string, error)
}

type GenerateRequest struct {
	Username string `json:"username"`
}

// Generate issues (or returns the existing) API key for a username.
func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.key")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			logger.Error("invalid key request")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("username is required"))
			return
		}

		apiKey, err := handler.GenerateApiKey(req.Username)
		if err != nil {
			logger.Error("generate api key", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to generate key"))
			return
		}

		logger.With(
			slog.String("username", req.Username),
		).Info("api key issued")

		render.JSON(w, r, response.Ok(map[string]string{"key": apiKey}))
	}
}
