package chat

import (
	"time"

	"TenantPilot/entity"
)

// Mode selects which top-level wizard a session is running.
type Mode string

const (
	ModeNone            Mode = ""
	ModeCreateTenant    Mode = "create_tenant"
	ModeConfigureTenant Mode = "configure_tenant"
)

// ChatState is the single source of truth for one assistant session.
// At most one of {linear sequencing, entity wizard, document wizard,
// conversation mode} is active at any time; Processing is true only while
// a handler for the current input is in flight.
type ChatState struct {
	Platform  string `json:"platform" bson:"platform"`
	SessionID string `json:"session_id" bson:"session_id"`
	ChatID    string `json:"chat_id" bson:"chat_id"`

	Mode        Mode              `json:"mode" bson:"mode"`
	CurrentStep int               `json:"current_step" bson:"current_step"`
	UserData    map[string]string `json:"user_data" bson:"user_data"`
	Processing  bool              `json:"processing" bson:"processing"`

	CreatingEntity         bool                `json:"creating_entity" bson:"creating_entity"`
	EntityStep             int                 `json:"entity_step" bson:"entity_step"`
	EntityDraft            *entity.EntityDraft `json:"entity_draft,omitempty" bson:"entity_draft,omitempty"`
	AwaitingEntityContinue bool                `json:"awaiting_entity_continue" bson:"awaiting_entity_continue"`

	AwaitingDocumentUpload   bool                  `json:"awaiting_document_upload" bson:"awaiting_document_upload"`
	AwaitingDocumentContinue bool                  `json:"awaiting_document_continue" bson:"awaiting_document_continue"`
	PendingUpload            *entity.PendingUpload `json:"pending_upload,omitempty" bson:"pending_upload,omitempty"`

	ConversationMode    bool                         `json:"conversation_mode" bson:"conversation_mode"`
	ConversationHistory []entity.ConversationMessage `json:"conversation_history,omitempty" bson:"conversation_history,omitempty"`
	ExitReminderShown   bool                         `json:"exit_reminder_shown" bson:"exit_reminder_shown"`

	TenantID   string `json:"tenant_id" bson:"tenant_id"`
	TenantName string `json:"tenant_name" bson:"tenant_name"`

	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewChatState creates a fresh session state.
func NewChatState(platform, sessionID, chatID string) *ChatState {
	return &ChatState{
		Platform:  platform,
		SessionID: sessionID,
		ChatID:    chatID,
		UserData:  make(map[string]string),
		UpdatedAt: time.Now(),
	}
}

// SubFlowActive reports whether any nested sub-flow currently owns the input.
func (s *ChatState) SubFlowActive() bool {
	return s.CreatingEntity ||
		s.AwaitingEntityContinue ||
		s.AwaitingDocumentUpload ||
		s.AwaitingDocumentContinue ||
		s.ConversationMode
}

// ResetSubFlows clears every sub-flow flag and its working data, restoring
// the mutual-exclusion invariant before a new sub-flow is entered.
func (s *ChatState) ResetSubFlows() {
	s.CreatingEntity = false
	s.EntityStep = 0
	s.EntityDraft = nil
	s.AwaitingEntityContinue = false
	s.AwaitingDocumentUpload = false
	s.AwaitingDocumentContinue = false
	s.PendingUpload = nil
	s.ConversationMode = false
	s.ConversationHistory = nil
	s.ExitReminderShown = false
}

// Set stores a collected answer.
func (s *ChatState) Set(field, value string) {
	if s.UserData == nil {
		s.UserData = make(map[string]string)
	}
	s.UserData[field] = value
}
