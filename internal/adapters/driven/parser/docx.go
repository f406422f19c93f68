package parser

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// DOCX extracts body paragraphs and tables from Word documents.
type DOCX struct{}

// NewDOCX creates a DOCX parser.
func NewDOCX() *DOCX {
	return &DOCX{}
}

// Extensions returns the extensions this parser handles.
func (p *DOCX) Extensions() []string {
	return []string{".docx"}
}

// Parse reads word/document.xml. Top-level paragraphs become the text;
// each top-level table becomes one table entry.
func (p *DOCX) Parse(_ context.Context, path string) (driven.ParseResult, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("open docx: %w", domain.ErrInvalidInput)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return driven.ParseResult{}, fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return driven.ParseResult{}, fmt.Errorf("read document.xml: %w", err)
		}

		return parseDocumentXML(content)
	}
	return driven.ParseResult{}, nil
}

// documentXML represents the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

func (p paragraph) text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			sb.WriteString(t.Content)
		}
	}
	return sb.String()
}

func parseDocumentXML(content []byte) (driven.ParseResult, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return driven.ParseResult{}, fmt.Errorf("decode document.xml: %w", domain.ErrInvalidInput)
	}

	var lines []string
	for _, para := range doc.Body.Paragraphs {
		if text := para.text(); text != "" {
			lines = append(lines, text)
		}
	}

	tables := make([]string, 0, len(doc.Body.Tables))
	for _, tbl := range doc.Body.Tables {
		rows := make([][]string, len(tbl.Rows))
		for i, row := range tbl.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				paras := make([]string, len(cell.Paragraphs))
				for k, para := range cell.Paragraphs {
					paras[k] = para.text()
				}
				cells[j] = strings.Join(paras, "\n")
			}
			rows[i] = cells
		}
		tables = append(tables, tableText(rows))
	}

	return driven.ParseResult{
		Text:   strings.Join(lines, "\n"),
		Tables: tables,
	}, nil
}
