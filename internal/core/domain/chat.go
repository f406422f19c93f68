package domain

import "time"

// Role identifies who produced a chat turn.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one persisted message in a session.
type ChatTurn struct {
	ID        string
	SessionID string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Citation points from an answer back to a retrieved chunk.
type Citation struct {
	DocName    string `json:"doc_name" yaml:"doc_name"`
	ChunkID    string `json:"chunk_id" yaml:"chunk_id"`
	SourceLink string `json:"source_link,omitempty" yaml:"source_link,omitempty"`
}

// ChatAnswer is the result of one answered question.
type ChatAnswer struct {
	SessionID string     `json:"session_id" yaml:"session_id"`
	Answer    string     `json:"answer" yaml:"answer"`
	Citations []Citation `json:"citations" yaml:"citations"`
}

// NotAvailableAnswer is returned whenever no grounded answer can be produced.
const NotAvailableAnswer = "The information is not available in the provided documents."
