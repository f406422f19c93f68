package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.Parser = (*Registry)(nil)

// FormatParser handles one family of file formats.
type FormatParser interface {
	// Parse extracts text and tables from the file at path.
	Parse(ctx context.Context, path string) (driven.ParseResult, error)

	// Extensions returns the lowercase extensions, with dot, this parser handles.
	Extensions() []string
}

// Registry dispatches files to format parsers by extension.
type Registry struct {
	byExt    map[string]FormatParser
	fallback FormatParser
}

// NewRegistry creates a registry with the built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:    make(map[string]FormatParser),
		fallback: NewPlainText(),
	}
	r.Register(NewPDF())
	r.Register(NewDOCX())
	r.Register(NewSpreadsheet())
	r.Register(NewImage())
	r.Register(NewHTML())
	r.Register(NewMarkdown())
	return r
}

// Register adds p for each of its extensions, replacing earlier entries.
func (r *Registry) Register(p FormatParser) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// Parse extracts content from path. Files with no extension are sniffed
// so that, for example, a PDF saved without a suffix is still parsed as PDF.
func (r *Registry) Parse(ctx context.Context, path, ext string) (driven.ParseResult, error) {
	ext = strings.ToLower(ext)
	if ext == "" {
		ext = sniffExtension(path)
	}
	if p, ok := r.byExt[ext]; ok {
		return parseSafely(ctx, p, path)
	}
	return parseSafely(ctx, r.fallback, path)
}

// parseSafely turns a panic inside a format library into an error, so one
// malformed file cannot abort a batch.
func parseSafely(ctx context.Context, p FormatParser, path string) (result driven.ParseResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = driven.ParseResult{}
			err = fmt.Errorf("parse %s: malformed content: %v", filepath.Base(path), rec)
		}
	}()
	return p.Parse(ctx, path)
}

// SupportedExtensions returns the extensions handled by a dedicated parser.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func sniffExtension(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	return mtype.Extension()
}

// tableText renders rows as tab-joined trimmed cells, one row per line.
func tableText(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		lines[i] = strings.Join(cells, "\t")
	}
	return strings.Join(lines, "\n")
}
