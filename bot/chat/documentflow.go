package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/sl"
)

// DocumentTypeOptions returns the selectable document types as menu options.
func DocumentTypeOptions() []entity.ChatOption {
	options := make([]entity.ChatOption, len(entity.DocumentTypes))
	for i, dt := range entity.DocumentTypes {
		label := string(dt)
		options[i] = entity.ChatOption{Key: label, Label: strings.ToUpper(label[:1]) + label[1:]}
	}
	return options
}

// startDocumentFlow opens the upload form.
func (c *Controller) startDocumentFlow(ctx context.Context, m Messenger, state *ChatState) error {
	state.ResetSubFlows()
	state.AwaitingDocumentUpload = true
	return c.sendMenu(state, m, "Attach the document you'd like me to process and pick its type:", DocumentTypeOptions())
}

// handleDocumentText handles text typed while the upload form is open:
// a retry of a failed submission, a cancel, or a nudge back to the form.
func (c *Controller) handleDocumentText(ctx context.Context, m Messenger, state *ChatState, text string) error {
	normalized := NormalizeInput(text)
	if state.PendingUpload != nil && (normalized == "retry" || IsAffirmative(text)) {
		return c.resubmitPending(ctx, m, state)
	}
	if IsNegative(text) || normalized == "cancel" || normalized == "menu" {
		return c.returnToMenu(m, state)
	}
	return c.sendText(state, m, "Attach the file you'd like me to process, or send \"cancel\" to go back.")
}

// HandleUpload processes a file submission for a session. It is the upload
// counterpart of HandleMessage and carries the same Processing guard.
func (c *Controller) HandleUpload(ctx context.Context, m Messenger, platform, sessionID, filename string, file io.Reader, docTypeRaw string) error {
	state, err := c.storage.Load(ctx, platform, sessionID)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return fmt.Errorf("no session for upload: %s", sessionID)
	}
	if state.Processing {
		c.log.With(
			slog.String("session_id", sessionID),
		).Warn("upload ignored, previous handler still in flight")
		return nil
	}

	state.Processing = true
	if err := c.storage.Save(ctx, state); err != nil {
		state.Processing = false
		return fmt.Errorf("saving state: %w", err)
	}
	defer func() {
		state.Processing = false
		state.UpdatedAt = time.Now()
		if err := c.storage.Save(ctx, state); err != nil {
			c.log.With(
				slog.String("session_id", sessionID),
				sl.Err(err),
			).Error("saving state after upload")
		}
	}()

	docType := entity.ParseDocumentType(docTypeRaw)
	c.recordIncoming(state, fmt.Sprintf("[attached %s · %s]", filename, docType))
	_ = m.SendTyping(state.ChatID)

	if !state.AwaitingDocumentUpload {
		// An unsolicited upload opens the form implicitly.
		state.ResetSubFlows()
		state.AwaitingDocumentUpload = true
	}

	if c.archive == nil {
		return c.submitDocument(ctx, m, state, filename, file, docType)
	}

	// Stage the file first so a failed submission can be retried without
	// asking the user to upload it again.
	fileID, size, err := c.archive.Store(ctx, filename, file, entity.FileMetadata{
		Platform:     state.Platform,
		SessionID:    state.SessionID,
		DocumentType: string(docType),
	})
	if err != nil {
		c.log.With(
			slog.String("session_id", sessionID),
			slog.String("filename", filename),
			sl.Err(err),
		).Error("archiving upload failed")
		return c.sendText(state, m, fmt.Sprintf("I couldn't read %s — please attach it again.", filename))
	}
	state.PendingUpload = &entity.PendingUpload{
		FileID:       fileID,
		Filename:     filename,
		DocumentType: docType,
		Size:         size,
	}
	return c.resubmitPending(ctx, m, state)
}

// resubmitPending re-reads the archived file and submits it.
func (c *Controller) resubmitPending(ctx context.Context, m Messenger, state *ChatState) error {
	pending := state.PendingUpload
	if pending == nil || c.archive == nil {
		return c.sendText(state, m, "There's nothing to retry — attach a file first.")
	}
	file, err := c.archive.Open(ctx, pending.FileID)
	if err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			slog.String("file_id", pending.FileID),
			sl.Err(err),
		).Error("opening archived upload")
		state.PendingUpload = nil
		return c.sendText(state, m, fmt.Sprintf("I lost track of %s — please attach it again.", pending.Filename))
	}
	defer file.Close()
	return c.submitDocument(ctx, m, state, pending.Filename, file, pending.DocumentType)
}

// submitDocument forwards the file to the document collaborator. Failure
// leaves the form open (and the pending file, if archived) for retry.
func (c *Controller) submitDocument(ctx context.Context, m Messenger, state *ChatState, filename string, file io.Reader, docType entity.DocumentType) error {
	result, err := c.documents.Upload(ctx, filename, file, docType)
	if err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			slog.String("filename", filename),
			sl.Err(err),
		).Error("document upload failed")
		if state.PendingUpload != nil {
			return c.sendText(state, m, fmt.Sprintf("Processing %s failed. Send \"retry\" to try the same file again, or attach a different one.", filename))
		}
		return c.sendText(state, m, fmt.Sprintf("Processing %s failed — please attach it again.", filename))
	}

	if state.PendingUpload != nil && c.archive != nil {
		// The staged copy served its purpose; don't let it pile up.
		if err := c.archive.Delete(ctx, state.PendingUpload.FileID); err != nil {
			c.log.With(
				slog.String("session_id", state.SessionID),
				slog.String("file_id", state.PendingUpload.FileID),
				sl.Err(err),
			).Warn("deleting archived upload")
		}
	}
	state.PendingUpload = nil
	state.AwaitingDocumentUpload = false

	if n := len(result.KnowledgeExtracted); n > 0 {
		if err := c.sendText(state, m, fmt.Sprintf("Done — I learned %d new things about your business from %s.", n, filename)); err != nil {
			return err
		}
	} else if err := c.sendText(state, m, fmt.Sprintf("%s processed ✅", filename)); err != nil {
		return err
	}

	state.AwaitingDocumentContinue = true
	return c.sendText(state, m, "Upload another document? (yes/no)")
}

// handleDocumentContinue mirrors the entity continuation loop.
func (c *Controller) handleDocumentContinue(ctx context.Context, m Messenger, state *ChatState, text string) error {
	switch {
	case IsAffirmative(text):
		state.AwaitingDocumentContinue = false
		return c.startDocumentFlow(ctx, m, state)
	case IsNegative(text):
		state.AwaitingDocumentContinue = false
		return c.returnToMenu(m, state)
	default:
		return c.sendText(state, m, "Please answer yes or no — upload another document?")
	}
}
