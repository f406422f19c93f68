// Package transcript renders the scrolling question and answer history.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Entry is one question or answer shown in the transcript.
type Entry struct {
	Role      domain.Role
	Text      string
	Citations []domain.Citation
}

// Transcript displays chat entries in a scrollable viewport.
type Transcript struct {
	viewport viewport.Model
	entries  []Entry
	styles   *styles.Styles
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		viewport: viewport.New(80, 10),
		styles:   s,
	}
}

// Update forwards scroll messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("No questions yet. Ask something about your documents.")
	}
	return t.viewport.View()
}

// Append adds an entry and scrolls to the bottom.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
	t.viewport.GotoBottom()
}

// Entries returns the entries in display order.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Reset removes all entries.
func (t *Transcript) Reset() {
	t.entries = nil
	t.refresh()
}

// ScrollUp moves the view up by half a page.
func (t *Transcript) ScrollUp() {
	t.viewport.HalfViewUp()
}

// ScrollDown moves the view down by half a page.
func (t *Transcript) ScrollDown() {
	t.viewport.HalfViewDown()
}

// SetDimensions sets the viewport size and re-wraps the content.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 1 {
		height = 1
	}
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.render())
}

func (t *Transcript) render() string {
	width := t.viewport.Width
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	blocks := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		var b strings.Builder
		if e.Role == domain.RoleUser {
			b.WriteString(t.styles.User.Render("You"))
		} else {
			b.WriteString(t.styles.Assistant.Render("docqa"))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(t.styles.Normal.Render(e.Text)))
		if len(e.Citations) > 0 {
			b.WriteString("\n")
			b.WriteString(wrap.Render(t.styles.Citation.Render("Sources: " + CitationLine(e.Citations))))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// CitationLine lists each cited document once, in order of first citation.
func CitationLine(citations []domain.Citation) string {
	seen := make(map[string]bool, len(citations))
	names := make([]string, 0, len(citations))
	for _, c := range citations {
		if seen[c.DocName] {
			continue
		}
		seen[c.DocName] = true
		names = append(names, c.DocName)
	}
	return strings.Join(names, ", ")
}
