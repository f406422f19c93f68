package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu       sync.Mutex
	sessions map[string][]domain.ChatTurn
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{sessions: make(map[string][]domain.ChatTurn)}
}

// Append records a new turn for the session.
func (s *HistoryStore) Append(_ context.Context, sessionID string, role domain.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], domain.ChatTurn{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// Recent returns at most limit most-recent turns, oldest first.
func (s *HistoryStore) Recent(_ context.Context, sessionID string, limit int) ([]domain.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		return []domain.ChatTurn{}, nil
	}
	turns := s.sessions[sessionID]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]domain.ChatTurn{}, turns...), nil
}

// Clear removes turns for a session, or all turns when sessionID is empty.
func (s *HistoryStore) Clear(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sessionID != "" {
		n := len(s.sessions[sessionID])
		delete(s.sessions, sessionID)
		return n, nil
	}
	n := 0
	for _, turns := range s.sessions {
		n += len(turns)
	}
	s.sessions = make(map[string][]domain.ChatTurn)
	return n, nil
}
