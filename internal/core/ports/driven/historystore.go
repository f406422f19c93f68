package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// HistoryStore is a durable, session-scoped log of chat turns.
type HistoryStore interface {
	// Append records a new turn for the session.
	Append(ctx context.Context, sessionID string, role domain.Role, content string) error

	// Recent returns at most limit most-recent turns, oldest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.ChatTurn, error)

	// Clear removes turns for a session, or all turns when sessionID is empty.
	// Returns the number of turns removed.
	Clear(ctx context.Context, sessionID string) (int, error)
}
