package driven

import "context"

// ParseResult is the text and tables extracted from one file.
type ParseResult struct {
	// Text is the full extracted text.
	Text string

	// Tables holds tab-joined cells and newline-joined rows, one entry per table.
	Tables []string
}

// Parser extracts text and tables from a stored file.
// Failures produce an empty result rather than an error at the ingestion boundary.
type Parser interface {
	// Parse reads the file at path, dispatching on ext (lowercase, with dot).
	Parse(ctx context.Context, path, ext string) (ParseResult, error)

	// SupportedExtensions returns the extensions handled specially.
	SupportedExtensions() []string
}
