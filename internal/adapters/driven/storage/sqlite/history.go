package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore over the chat_history table.
// Turns are ordered by created_at, then by insertion sequence. Callers that
// need per-session ordering across goroutines serialise appends themselves.
type historyStore struct {
	store *Store
	now   func() time.Time
}

var _ driven.HistoryStore = (*historyStore)(nil)

func newHistoryStore(store *Store) *historyStore {
	return &historyStore{store: store, now: time.Now}
}

// Append records a new turn for the session.
func (s *historyStore) Append(ctx context.Context, sessionID string, role domain.Role, content string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO chat_history (id, session_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), sessionID, string(role), content, s.now().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("appending chat turn: %w", err)
	}
	return nil
}

// Recent returns at most limit most-recent turns, oldest first.
func (s *historyStore) Recent(ctx context.Context, sessionID string, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		return []domain.ChatTurn{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_history
		WHERE session_id = ?
		ORDER BY created_at DESC, seq DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer rows.Close()

	turns := make([]domain.ChatTurn, 0, limit)
	for rows.Next() {
		var turn domain.ChatTurn
		var role string
		var createdAt int64
		if err := rows.Scan(&turn.ID, &turn.SessionID, &role, &turn.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat turn: %w", err)
		}
		turn.Role = domain.Role(role)
		turn.CreatedAt = time.Unix(0, createdAt).UTC()
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest first from the query; callers want chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Clear removes turns for a session, or all turns when sessionID is empty.
func (s *historyStore) Clear(ctx context.Context, sessionID string) (int, error) {
	var (
		res sql.Result
		err error
	)
	if sessionID == "" {
		res, err = s.store.db.ExecContext(ctx, `DELETE FROM chat_history`)
	} else {
		res, err = s.store.db.ExecContext(ctx, `DELETE FROM chat_history WHERE session_id = ?`, sessionID)
	}
	if err != nil {
		return 0, fmt.Errorf("clearing chat history: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared turns: %w", err)
	}
	return int(n), nil
}
