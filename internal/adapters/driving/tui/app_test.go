package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{
		Chat: &MockChatService{},
		Document: &MockDocumentService{Docs: []domain.Document{
			{ID: "d1", Name: "leaflet.pdf", Source: domain.SourceUpload},
		}},
		Status: &MockStatusService{status: driving.Status{
			LLMEnabled: true, LLMProvider: "openai", LLMModel: "gpt-4o-mini",
		}},
	})
	require.NoError(t, err)
	app.SetDimensions(120, 30)
	return app
}

func TestNewApp(t *testing.T) {
	t.Run("starts in chat view", func(t *testing.T) {
		app := newTestApp(t)
		assert.Equal(t, messages.ViewChat, app.CurrentView())
		assert.NotNil(t, app.Init())
	})

	t.Run("invalid ports", func(t *testing.T) {
		app, err := NewApp(&Ports{})
		assert.ErrorIs(t, err, ErrMissingChatService)
		assert.Nil(t, app)
	})
}

func TestApp_NotReadyBeforeSize(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("k"), "v")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_ShowsBackendInStatus(t *testing.T) {
	app := newTestApp(t)

	assert.Contains(t, app.View(), "openai gpt-4o-mini")
}

func TestApp_QuitOnCtrlC(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_AskFlow(t *testing.T) {
	app := newTestApp(t)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("dosage?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "answer to dosage?")
}

func TestApp_SwitchToDocumentsAndBack(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	_, load := app.Update(cmd())
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	require.NotNil(t, load)
	app.Update(load())
	assert.Contains(t, app.View(), "leaflet.pdf")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_DocumentsViewNeedsService(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewDocuments})

	assert.Nil(t, cmd)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestBackendLabel(t *testing.T) {
	tests := []struct {
		name     string
		status   driving.Status
		expected string
	}{
		{"llm enabled", driving.Status{LLMEnabled: true, LLMProvider: "groq", LLMModel: "llama"}, "groq llama"},
		{"no llm", driving.Status{EmbeddingMode: "local_fallback"}, "no llm (local_fallback embeddings)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, backendLabel(tt.status))
		})
	}
}
