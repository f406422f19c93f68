package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ChatService answers questions from indexed documents.
type ChatService interface {
	// Answer runs retrieval-augmented answering. An empty sessionID mints one.
	// Retrieval and generation failures degrade to domain.NotAvailableAnswer.
	Answer(ctx context.Context, sessionID, question string) (*domain.ChatAnswer, error)

	// Search retrieves the best matching chunks without generating an answer.
	Search(ctx context.Context, query string, topK int) (domain.QueryResult, error)

	// ClearHistory removes the session's turns, or all turns when sessionID is empty.
	ClearHistory(ctx context.Context, sessionID string) (int, error)
}
