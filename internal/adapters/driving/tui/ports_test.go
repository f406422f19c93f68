package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct{}

func (m *MockChatService) Answer(_ context.Context, sessionID, question string) (*domain.ChatAnswer, error) {
	if sessionID == "" {
		sessionID = "s-1"
	}
	return &domain.ChatAnswer{SessionID: sessionID, Answer: "answer to " + question}, nil
}

func (m *MockChatService) Search(_ context.Context, _ string, _ int) (domain.QueryResult, error) {
	return domain.QueryResult{}, nil
}

func (m *MockChatService) ClearHistory(_ context.Context, _ string) (int, error) {
	return 0, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	Docs []domain.Document
}

func (m *MockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.Docs, nil
}

func (m *MockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) Delete(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) Clear(_ context.Context) (int, error) {
	return 0, nil
}

// MockStatusService implements driving.StatusService for testing.
type MockStatusService struct {
	status driving.Status
}

func (m *MockStatusService) Status() driving.Status {
	return m.status
}

func TestPorts_Validate(t *testing.T) {
	t.Run("missing chat", func(t *testing.T) {
		ports := &Ports{Document: &MockDocumentService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingChatService)
	})

	t.Run("chat only", func(t *testing.T) {
		ports := &Ports{Chat: &MockChatService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all set", func(t *testing.T) {
		ports := &Ports{
			Chat:     &MockChatService{},
			Document: &MockDocumentService{},
			Status:   &MockStatusService{},
		}
		assert.NoError(t, ports.Validate())
	})
}
