// Package documents provides the ingested documents view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrNoDocumentService is returned when the view has no document service.
var ErrNoDocumentService = errors.New("document service not available")

// View lists ingested documents and lets the user delete them.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	documentService driving.DocumentService
	ctx             context.Context

	documents    []domain.Document
	selected     int
	scrollOffset int
	confirming   bool
	loading      bool
	err          error
	width        int
	height       int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:          s,
		keymap:          km,
		documentService: documentService,
		ctx:             context.Background(),
		documents:       []domain.Document{},
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Load returns a command that fetches the document list.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.confirming = false
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := v.documentService.List(v.ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) deleteSelected() tea.Cmd {
	doc := v.SelectedDocument()
	if doc == nil {
		return nil
	}
	id := doc.ID
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: ErrNoDocumentService}
		}
		_, err := v.documentService.Delete(v.ctx, id)
		return messages.DocumentDeleted{DocumentID: id, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.documents = msg.Documents
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Load()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.confirming {
		v.confirming = false
		if keyStr == "y" {
			return v, v.deleteSelected()
		}
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Back), keymap.Matches(keyStr, v.keymap.SwitchView):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	case keymap.Matches(keyStr, v.keymap.Up), keyStr == "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keymap.Down), keyStr == "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keymap.Delete):
		if len(v.documents) > 0 {
			v.confirming = true
		}
	case keymap.Matches(keyStr, v.keymap.Reload):
		return v, v.Load()
	}

	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// Title, header, confirmation and help lines.
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents ingested yet."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.documents))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1, end, len(v.documents))))
			b.WriteString("\n")
		}
	}

	if v.confirming {
		if doc := v.SelectedDocument(); doc != nil {
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s? [y/N]", doc.Name)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[↑/↓] navigate  [d] delete  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := doc.Name
	maxNameLen := max(v.width/2-4, 10)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}
	detail := fmt.Sprintf("%s  %d chunks", doc.Source, doc.ChunkCount)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, detail))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
		v.styles.Muted.Render(detail)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// Confirming reports whether a delete is awaiting confirmation.
func (v *View) Confirming() bool {
	return v.confirming
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
