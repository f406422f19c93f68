package parser

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Spreadsheet turns every sheet of a workbook into one table.
// Legacy binary .xls workbooks are not readable and yield an error.
type Spreadsheet struct{}

// NewSpreadsheet creates a spreadsheet parser.
func NewSpreadsheet() *Spreadsheet {
	return &Spreadsheet{}
}

// Extensions returns the extensions this parser handles.
func (p *Spreadsheet) Extensions() []string {
	return []string{".xls", ".xlsx"}
}

// Parse returns no text and one table per sheet, header row included.
func (p *Spreadsheet) Parse(_ context.Context, path string) (driven.ParseResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var tables []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return driven.ParseResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		tables = append(tables, tableText(rows))
	}
	return driven.ParseResult{Tables: tables}, nil
}
