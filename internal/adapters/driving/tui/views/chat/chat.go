// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrNoChatService is returned when the view has no chat service.
var ErrNoChatService = errors.New("chat service not available")

// View is the chat view: transcript, question input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	sessionID string
	pending   bool
	width     int
	height    int
	ready     bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewQuestionInput(s),
		transcript:  transcript.New(s),
		statusbar:   status.NewBar(s, km.ChatHelp()),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetBackend shows the resolved backend in the status bar.
func (v *View) SetBackend(backend string) {
	v.statusbar.SetBackend(backend)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.sessionID = ""
		v.transcript.Reset()
		v.statusbar.Clear()
		v.statusbar.SetSession("")
		v.statusbar.SetMessage("Conversation cleared")
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.SwitchView):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}

	case keymap.Matches(keyStr, v.keymap.Clear):
		return v, v.clearHistory()

	case keymap.Matches(keyStr, v.keymap.Up):
		v.transcript.ScrollUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Down):
		v.transcript.ScrollDown()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Send):
		question := v.input.Value()
		if question == "" || v.pending {
			return v, nil
		}
		v.pending = true
		v.input.Reset()
		v.transcript.Append(transcript.Entry{Role: domain.RoleUser, Text: question})
		v.statusbar.Clear()
		v.statusbar.SetState(status.StateThinking)
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask returns a command that answers the question in the current session.
func (v *View) ask(question string) tea.Cmd {
	sessionID := v.sessionID
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoChatService}
		}
		answer, err := v.chatService.Answer(v.ctx, sessionID, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) clearHistory() tea.Cmd {
	sessionID := v.sessionID
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryCleared{Err: ErrNoChatService}
		}
		if sessionID == "" {
			return messages.HistoryCleared{}
		}
		n, err := v.chatService.ClearHistory(v.ctx, sessionID)
		return messages.HistoryCleared{Count: n, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.sessionID = msg.Answer.SessionID
	v.transcript.Append(transcript.Entry{
		Role:      domain.RoleAssistant,
		Text:      msg.Answer.Answer,
		Citations: msg.Answer.Citations,
	})
	v.statusbar.Clear()
	v.statusbar.SetSession(v.sessionID)
}

func (v *View) setError(err error) {
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("docqa"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Title, blank lines, bordered input and status bar.
	v.transcript.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// SessionID returns the active session, empty before the first answer.
func (v *View) SessionID() string {
	return v.sessionID
}

// Pending reports whether a question is awaiting its answer.
func (v *View) Pending() bool {
	return v.pending
}

// Entries returns the transcript entries.
func (v *View) Entries() []transcript.Entry {
	return v.transcript.Entries()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
