package parser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// PlainText decodes files as text. A UTF-16 or UTF-8 byte order mark is
// honoured; content that is not valid UTF-8 yields empty text.
type PlainText struct{}

// NewPlainText creates a plain text parser.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extensions returns nil; plain text is the registry fallback.
func (p *PlainText) Extensions() []string {
	return nil
}

// Parse reads the file as text.
func (p *PlainText) Parse(_ context.Context, path string) (driven.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("read file: %w", err)
	}
	return driven.ParseResult{Text: decodeText(data)}, nil
}

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

func decodeText(data []byte) string {
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	if !utf8.Valid(data) {
		return ""
	}
	return string(bytes.TrimPrefix(data, utf8BOM))
}
