package entity

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is a single turn in the free-form conversation history.
type ConversationMessage struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// ChatReply is the conversation collaborator's answer to one turn.
type ChatReply struct {
	Response           string   `json:"response"`
	KnowledgeExtracted []string `json:"knowledge_extracted,omitempty"`
}
