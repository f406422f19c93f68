// Package tui provides an interactive terminal chat for docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Chat answers questions. Required.
	Chat driving.ChatService

	// Document lists and deletes ingested documents. Optional.
	Document driving.DocumentService

	// Status reports how the AI backends were resolved. Optional.
	Status driving.StatusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
