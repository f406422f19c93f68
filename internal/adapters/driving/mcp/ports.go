package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Chat answers questions and searches chunks.
	Chat driving.ChatService

	// Document lists ingested documents. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
