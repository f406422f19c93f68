package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

type mockChatService struct {
	answer  *domain.ChatAnswer
	results domain.QueryResult
	err     error

	question  string
	sessionID string
	query     string
	topK      int
}

func (m *mockChatService) Answer(_ context.Context, sessionID, question string) (*domain.ChatAnswer, error) {
	m.sessionID = sessionID
	m.question = question
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockChatService) Search(_ context.Context, query string, topK int) (domain.QueryResult, error) {
	m.query = query
	m.topK = topK
	return m.results, m.err
}

func (m *mockChatService) ClearHistory(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.document == nil {
		return nil, domain.ErrNotFound
	}
	return m.document, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Clear(_ context.Context) (int, error) {
	return 0, m.err
}
