package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatOption is a selectable option attached to a transcript message.
type ChatOption struct {
	Key   string `json:"key" bson:"key"`
	Label string `json:"label" bson:"label"`
}

// ChatMessage represents a single record in an assistant session transcript.
type ChatMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Platform  string             `json:"platform" bson:"platform"`
	SessionID string             `json:"session_id" bson:"session_id"`
	ChatID    string             `json:"chat_id" bson:"chat_id"`
	Direction string             `json:"direction" bson:"direction"` // "incoming" | "outgoing"
	Sender    string             `json:"sender" bson:"sender"`       // "user" | "bot"
	Text      string             `json:"text" bson:"text"`
	Options   []ChatOption       `json:"options,omitempty" bson:"options,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// BotReply is one assistant reply returned synchronously to a web client.
type BotReply struct {
	Text    string       `json:"text"`
	Options []ChatOption `json:"options,omitempty"`
}

// SessionSummary is an operator-console row: one line per session with the
// latest transcript message.
type SessionSummary struct {
	Platform    string    `json:"platform" bson:"platform"`
	SessionID   string    `json:"session_id" bson:"session_id"`
	LastMessage string    `json:"last_message" bson:"last_message"`
	LastTime    time.Time `json:"last_time" bson:"last_time"`
	Incoming    int       `json:"incoming" bson:"incoming"`
}
