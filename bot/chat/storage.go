package chat

import (
	"context"
	"sync"
)

// StateRepository defines the database operations for session state.
type StateRepository interface {
	SaveChatState(ctx context.Context, state *ChatState) error
	LoadChatState(ctx context.Context, platform, sessionID string) (*ChatState, error)
	DeleteChatState(ctx context.Context, platform, sessionID string) error
}

// MongoStateStorage adapts the database repository to the StateStorage interface.
type MongoStateStorage struct {
	repo StateRepository
}

// NewMongoStateStorage creates a new MongoDB session state storage.
func NewMongoStateStorage(repo StateRepository) *MongoStateStorage {
	return &MongoStateStorage{repo: repo}
}

func (s *MongoStateStorage) Save(ctx context.Context, state *ChatState) error {
	return s.repo.SaveChatState(ctx, state)
}

func (s *MongoStateStorage) Load(ctx context.Context, platform, sessionID string) (*ChatState, error) {
	return s.repo.LoadChatState(ctx, platform, sessionID)
}

func (s *MongoStateStorage) Delete(ctx context.Context, platform, sessionID string) error {
	return s.repo.DeleteChatState(ctx, platform, sessionID)
}

// MemoryStateStorage keeps session states in memory. Used when MongoDB is
// disabled; sessions then live only as long as the process.
type MemoryStateStorage struct {
	mu     sync.RWMutex
	states map[string]*ChatState
}

// NewMemoryStateStorage creates an in-memory session state storage.
func NewMemoryStateStorage() *MemoryStateStorage {
	return &MemoryStateStorage{states: make(map[string]*ChatState)}
}

func stateKey(platform, sessionID string) string {
	return platform + "/" + sessionID
}

func (s *MemoryStateStorage) Save(ctx context.Context, state *ChatState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[stateKey(state.Platform, state.SessionID)] = state
	return nil
}

func (s *MemoryStateStorage) Load(ctx context.Context, platform, sessionID string) (*ChatState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[stateKey(platform, sessionID)], nil
}

func (s *MemoryStateStorage) Delete(ctx context.Context, platform, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, stateKey(platform, sessionID))
	return nil
}
