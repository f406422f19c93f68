package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	chatView      *chat.View
	documentsView *documents.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	chatView := chat.NewView(s, km, ports.Chat)
	if ports.Status != nil {
		chatView.SetBackend(backendLabel(ports.Status.Status()))
	}

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		chatView:      chatView,
		documentsView: documents.NewView(s, km, ports.Document),
		currentView:   messages.ViewChat,
	}, nil
}

// WithContext sets the context for service calls made by the views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docqa"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewDocuments {
			a.documentsView, cmd = a.documentsView.Update(msg)
			return a, cmd
		}
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		if msg.View == messages.ViewDocuments && a.ports.Document == nil {
			return a, nil
		}
		a.currentView = msg.View
		if msg.View == messages.ViewDocuments {
			return a, a.documentsView.Load()
		}
		return a, nil

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd
	}

	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewDocuments {
		return a.documentsView.View()
	}
	return a.chatView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
}

// backendLabel summarises the resolved backends, e.g. "openai gpt-4o-mini".
func backendLabel(s driving.Status) string {
	if !s.LLMEnabled {
		return "no llm (" + s.EmbeddingMode + " embeddings)"
	}
	return s.LLMProvider + " " + s.LLMModel
}
