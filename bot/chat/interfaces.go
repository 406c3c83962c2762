package chat

import (
	"context"
	"io"

	"TenantPilot/entity"
)

// TenantService is the tenant platform collaborator.
type TenantService interface {
	// CurrentTenant resolves the authenticated user's tenant ("who am I").
	CurrentTenant(ctx context.Context) (*entity.Tenant, error)

	// CreateTenant provisions a new tenant from the completed wizard payload.
	CreateTenant(ctx context.Context, payload entity.TenantPayload) (*entity.Tenant, error)

	// SwitchTenant makes the given tenant the caller's active one.
	SwitchTenant(ctx context.Context, tenantID string) error

	// CreateEntity adds a sub-unit (subsidiary, division, …) to the active tenant.
	CreateEntity(ctx context.Context, draft entity.EntityDraft) error
}

// DocumentService is the document-processing collaborator.
type DocumentService interface {
	Upload(ctx context.Context, filename string, file io.Reader, docType entity.DocumentType) (*entity.UploadResult, error)
}

// ConversationService answers free-form questions about the business.
type ConversationService interface {
	Chat(ctx context.Context, message string, history []entity.ConversationMessage) (*entity.ChatReply, error)
}

// DocumentArchive stages uploaded files so a failed submission can be
// retried without asking the user to upload again. Delete releases a
// staged file once it is no longer needed.
type DocumentArchive interface {
	Store(ctx context.Context, filename string, file io.Reader, meta entity.FileMetadata) (fileID string, size int64, err error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

// StateStorage handles persistence of session states.
type StateStorage interface {
	Save(ctx context.Context, state *ChatState) error
	Load(ctx context.Context, platform, sessionID string) (*ChatState, error)
	Delete(ctx context.Context, platform, sessionID string) error
}
