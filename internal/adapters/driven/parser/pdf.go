package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// PDF extracts page text from PDF files. Table structure is not recovered.
type PDF struct{}

// NewPDF creates a PDF parser.
func NewPDF() *PDF {
	return &PDF{}
}

// Extensions returns the extensions this parser handles.
func (p *PDF) Extensions() []string {
	return []string{".pdf"}
}

// Parse joins the plain text of every non-empty page with newlines.
func (p *PDF) Parse(ctx context.Context, path string) (driven.ParseResult, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return driven.ParseResult{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return driven.ParseResult{}, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	return driven.ParseResult{Text: strings.Join(parts, "\n")}, nil
}
