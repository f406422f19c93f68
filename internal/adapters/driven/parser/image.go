package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Image extracts text from images with an OCR engine. Without one,
// images are accepted but contribute no text.
type Image struct {
	ocr OCR
}

// NewImage creates an image parser using tesseract when it is installed.
func NewImage() *Image {
	if t := NewTesseract(); t != nil {
		return NewImageWith(t)
	}
	return NewImageWith(nil)
}

// NewImageWith creates an image parser with the given engine, which may be nil.
func NewImageWith(ocr OCR) *Image {
	return &Image{ocr: ocr}
}

// Extensions returns the extensions this parser handles.
func (p *Image) Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}
}

// HasOCR reports whether an engine is configured.
func (p *Image) HasOCR() bool {
	return p.ocr != nil
}

// Parse returns the recognised text, or an empty result when no engine
// is available.
func (p *Image) Parse(ctx context.Context, path string) (driven.ParseResult, error) {
	if p.ocr == nil {
		logger.Warn("image %s: no OCR engine installed (%s not on PATH), no text extracted", path, TesseractBinary)
		return driven.ParseResult{}, nil
	}
	text, err := p.ocr.Recognize(ctx, path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("ocr: %w", err)
	}
	return driven.ParseResult{Text: strings.TrimSpace(text)}, nil
}
