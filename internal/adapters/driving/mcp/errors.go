// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants ask grounded questions and browse ingested documents.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
