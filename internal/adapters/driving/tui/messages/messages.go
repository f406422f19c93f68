// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer transcript.
	ViewChat ViewType = iota
	// ViewDocuments lists ingested documents.
	ViewDocuments
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// AnswerReceived carries the result of one question.
type AnswerReceived struct {
	Question string
	Answer   *domain.ChatAnswer
	Err      error
}

// HistoryCleared signals the session history was removed.
type HistoryCleared struct {
	Count int
	Err   error
}

// DocumentsLoaded carries the list of ingested documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentDeleted signals a document was removed.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
