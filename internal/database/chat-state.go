package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TenantPilot/bot/chat"
)

// SaveChatState persists a session's state by {platform, session_id}.
func (m *MongoDB) SaveChatState(ctx context.Context, state *chat.ChatState) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	state.UpdatedAt = time.Now()

	filter := bson.D{{"platform", state.Platform}, {"session_id", state.SessionID}}
	update := bson.D{{"$set", state}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// LoadChatState retrieves a session's state by {platform, session_id}.
func (m *MongoDB) LoadChatState(ctx context.Context, platform, sessionID string) (*chat.ChatState, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	filter := bson.D{{"platform", platform}, {"session_id", sessionID}}

	var state chat.ChatState
	err = collection.FindOne(ctx, filter).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &state, nil
}

// DeleteChatState removes a session's state by {platform, session_id}.
func (m *MongoDB) DeleteChatState(ctx context.Context, platform, sessionID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	filter := bson.D{{"platform", platform}, {"session_id", sessionID}}

	_, err = collection.DeleteOne(ctx, filter)
	return err
}
