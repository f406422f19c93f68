// Package pdf renders report blocks to a letter-size PDF.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.ReportRenderer = (*Renderer)(nil)

// Layout in millimetres and points.
const (
	margin        = 20.0
	headingSize   = 14.0
	bodySize      = 10.5
	tableSize     = 9.0
	headingLine   = 8.0
	bodyLine      = 5.5
	tableLine     = 4.5
	blockSpacing  = 4.0
	tabExpansion  = "    "
	bodyFont      = "Helvetica"
	preformatFont = "Courier"
)

// Renderer writes reports with fpdf and checks the output with pdfcpu.
type Renderer struct {
	conf *model.Configuration
}

// New creates a PDF renderer.
func New() *Renderer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Renderer{conf: conf}
}

// Extension returns ".pdf".
func (r *Renderer) Extension() string {
	return ".pdf"
}

// Render lays out blocks in order: headings bold, paragraphs as body
// text, tables in a fixed-width font with tabs expanded.
func (r *Renderer) Render(title string, blocks []domain.ReportBlock) ([]byte, error) {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetTitle(title, true)
	doc.SetCreator("docqa", true)
	doc.AddPage()

	// Core fonts are cp1252; translate so accented text survives.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, block := range blocks {
		switch block.Kind {
		case domain.BlockHeading:
			doc.SetFont(bodyFont, "B", headingSize)
			doc.MultiCell(0, headingLine, tr(block.Text), "", "L", false)
			doc.Ln(blockSpacing / 2)
		case domain.BlockTable:
			doc.SetFont(preformatFont, "", tableSize)
			doc.MultiCell(0, tableLine, tr(strings.ReplaceAll(block.Text, "\t", tabExpansion)), "", "L", false)
			doc.Ln(blockSpacing)
		default:
			doc.SetFont(bodyFont, "", bodySize)
			doc.MultiCell(0, bodyLine, tr(block.Text), "", "L", false)
			doc.Ln(blockSpacing)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	if err := api.Validate(bytes.NewReader(buf.Bytes()), r.conf); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages in a rendered report.
func (r *Renderer) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), r.conf)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}
