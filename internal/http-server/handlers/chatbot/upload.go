package chatbot

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/api/response"
	"TenantPilot/internal/lib/sl"
)

// Upload handles a document submission for a session.
// Endpoint: POST /api/v1/chat/upload
// Content-Type: multipart/form-data
// Fields: file, platform, session_id, document_type (optional)
func Upload(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.chatbot")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseMultipartForm(entity.MaxFileSize); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid multipart form"))
			return
		}

		platform := r.FormValue("platform")
		sessionID := r.FormValue("session_id")
		docType := r.FormValue("document_type")
		if platform == "" || sessionID == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("platform and session_id are required"))
			return
		}

		files := r.MultipartForm.File["file"]
		if len(files) == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("a file is required"))
			return
		}
		fh := files[0]
		if fh.Size > entity.MaxFileSize {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error(fmt.Sprintf("file %q exceeds the %d MB limit", fh.Filename, entity.MaxFileSize>>20)))
			return
		}

		file, err := fh.Open()
		if err != nil {
			logger.Error("failed to open uploaded file",
				slog.String("filename", fh.Filename),
				sl.Err(err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read uploaded file"))
			return
		}
		defer file.Close()

		logger = logger.With(
			slog.String("platform", platform),
			slog.String("session_id", sessionID),
			slog.String("filename", fh.Filename),
		)

		replies, err := handler.UploadChatDocument(r.Context(), platform, sessionID, fh.Filename, file, docType)
		if err != nil {
			logger.Error("chat upload", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to process upload"))
			return
		}
		logger.Debug("chat upload handled")

		render.JSON(w, r, response.Ok(replies))
	}
}
