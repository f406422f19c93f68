package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// ReportRenderer produces a binary document from ordered report blocks.
type ReportRenderer interface {
	// Render returns the encoded document.
	Render(title string, blocks []domain.ReportBlock) ([]byte, error)

	// Extension is the file extension of rendered output, e.g. ".pdf".
	Extension() string
}
