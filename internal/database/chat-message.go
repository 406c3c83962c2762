package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TenantPilot/entity"
)

// transcriptKeep caps the stored transcript length per session.
const transcriptKeep = 100

// SaveChatMessage inserts a transcript record and trims the session's
// transcript to the newest transcriptKeep entries.
func (m *MongoDB) SaveChatMessage(msg entity.ChatMessage) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatMessagesCollection)

	_, err = collection.InsertOne(m.ctx, msg)
	if err != nil {
		return fmt.Errorf("mongodb insert chat message: %w", err)
	}

	filter := bson.D{{"platform", msg.Platform}, {"session_id", msg.SessionID}}
	count, err := collection.CountDocuments(m.ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb count chat messages: %w", err)
	}

	if count > transcriptKeep {
		opts := options.FindOne().SetSort(bson.D{{"created_at", -1}}).SetSkip(transcriptKeep - 1)
		var cutoff entity.ChatMessage
		err = collection.FindOne(m.ctx, filter, opts).Decode(&cutoff)
		if err != nil {
			return fmt.Errorf("mongodb find cutoff message: %w", err)
		}

		deleteFilter := bson.D{
			{"platform", msg.Platform},
			{"session_id", msg.SessionID},
			{"created_at", bson.D{{"$lt", cutoff.CreatedAt}}},
		}
		_, err = collection.DeleteMany(m.ctx, deleteFilter)
		if err != nil {
			return fmt.Errorf("mongodb trim chat messages: %w", err)
		}
	}

	return nil
}

// GetChatMessages returns transcript records for a session, newest first.
func (m *MongoDB) GetChatMessages(platform, sessionID string, limit, offset int) ([]entity.ChatMessage, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatMessagesCollection)

	filter := bson.D{{"platform", platform}, {"session_id", sessionID}}
	opts := options.Find().
		SetSort(bson.D{{"created_at", -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find chat messages: %w", err)
	}
	defer cursor.Close(m.ctx)

	var messages []entity.ChatMessage
	if err = cursor.All(m.ctx, &messages); err != nil {
		return nil, fmt.Errorf("mongodb decode chat messages: %w", err)
	}

	return messages, nil
}

// GetActiveSessions returns one summary row per session for the operator
// console, most recently active first.
func (m *MongoDB) GetActiveSessions() ([]entity.SessionSummary, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatMessagesCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{"created_at", -1}}}},
		{{Key: "$group", Value: bson.D{
			{"_id", bson.D{{"platform", "$platform"}, {"session_id", "$session_id"}}},
			{"last_message", bson.D{{"$first", "$text"}}},
			{"last_time", bson.D{{"$first", "$created_at"}}},
			{"incoming", bson.D{{"$sum", bson.D{
				{"$cond", bson.A{
					bson.D{{"$eq", bson.A{"$direction", "incoming"}}},
					1,
					0,
				}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{"last_time", -1}}}},
		{{Key: "$project", Value: bson.D{
			{"_id", 0},
			{"platform", "$_id.platform"},
			{"session_id", "$_id.session_id"},
			{"last_message", 1},
			{"last_time", 1},
			{"incoming", 1},
		}}},
	}

	cursor, err := collection.Aggregate(m.ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongodb aggregate active sessions: %w", err)
	}
	defer cursor.Close(m.ctx)

	var summaries []entity.SessionSummary
	if err = cursor.All(m.ctx, &summaries); err != nil {
		return nil, fmt.Errorf("mongodb decode session summaries: %w", err)
	}

	return summaries, nil
}

// EnsureChatMessageIndexes creates the transcript lookup index.
func (m *MongoDB) EnsureChatMessageIndexes() error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatMessagesCollection)

	index := mongo.IndexModel{
		Keys: bson.D{
			{"platform", 1},
			{"session_id", 1},
			{"created_at", -1},
		},
	}

	_, err = collection.Indexes().CreateOne(m.ctx, index)
	if err != nil {
		return fmt.Errorf("mongodb create chat message index: %w", err)
	}

	return nil
}
