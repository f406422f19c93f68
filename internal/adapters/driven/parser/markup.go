package parser

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// HTML extracts readable text and tables from web pages.
type HTML struct{}

// NewHTML creates an HTML parser.
func NewHTML() *HTML {
	return &HTML{}
}

// Extensions returns the extensions this parser handles.
func (p *HTML) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Parse drops scripts, styles and the document head. Each top-level table
// becomes one table entry and is left out of the text.
func (p *HTML) Parse(_ context.Context, path string) (driven.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("read file: %w", err)
	}

	root, err := html.Parse(strings.NewReader(decodeText(data)))
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("parse html: %w", domain.ErrInvalidInput)
	}

	var w htmlWalker
	w.walk(root)
	return driven.ParseResult{Text: cleanLines(w.text.String()), Tables: w.tables}, nil
}

// skippedElements never contribute text.
var skippedElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
}

// blockElements start and end on their own line.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Blockquote: true,
	atom.Pre: true, atom.Section: true, atom.Article: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

type htmlWalker struct {
	text   strings.Builder
	tables []string
}

func (w *htmlWalker) walk(n *html.Node) {
	block := false
	switch n.Type {
	case html.TextNode:
		w.text.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		switch n.DataAtom {
		case atom.Table:
			if rows := tableRows(n); len(rows) > 0 {
				w.tables = append(w.tables, tableText(rows))
			}
			return
		case atom.Br:
			w.text.WriteByte('\n')
			return
		}
		block = blockElements[n.DataAtom]
	}

	if block {
		w.text.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.text.WriteByte('\n')
	}
}

// tableRows collects the cell text of every row in table. Nested tables
// are read as part of their enclosing cell.
func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				var row []string
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.DataAtom == atom.Td || cell.DataAtom == atom.Th) {
						row = append(row, strings.Join(strings.Fields(textContent(cell)), " "))
					}
				}
				if len(row) > 0 {
					rows = append(rows, row)
				}
			case atom.Table:
			default:
				visit(c)
			}
		}
	}
	visit(table)
	return rows
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
		b.WriteByte(' ')
	}
	return b.String()
}

// Markdown strips formatting from Markdown files. Pipe tables are returned
// as tables and left out of the text.
type Markdown struct{}

// NewMarkdown creates a Markdown parser.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Extensions returns the extensions this parser handles.
func (p *Markdown) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Parse reads the file as Markdown.
func (p *Markdown) Parse(_ context.Context, path string) (driven.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return driven.ParseResult{}, fmt.Errorf("read file: %w", err)
	}

	body, tables := splitPipeTables(decodeText(data))
	return driven.ParseResult{Text: stripMarkdown(body), Tables: tables}, nil
}

var (
	mdFence       = regexp.MustCompile("(?m)^\\s*(```|~~~).*$")
	mdInlineCode  = regexp.MustCompile("`([^`]+)`")
	mdImage       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	mdLink        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdHeading     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdStrong      = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	mdEmphasis    = regexp.MustCompile(`\*([^*\n]+)\*`)
	mdBlockquote  = regexp.MustCompile(`(?m)^>\s?`)
	mdRule        = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	mdListMarker  = regexp.MustCompile(`(?m)^\s*([-*+]|\d+\.)\s+`)
	mdTableDivide = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`)
)

func stripMarkdown(content string) string {
	content = mdFence.ReplaceAllString(content, "")
	content = mdInlineCode.ReplaceAllString(content, "$1")
	content = mdImage.ReplaceAllString(content, "$1")
	content = mdLink.ReplaceAllString(content, "$1")
	content = mdHeading.ReplaceAllString(content, "")
	content = mdBlockquote.ReplaceAllString(content, "")
	content = mdRule.ReplaceAllString(content, "")
	content = mdListMarker.ReplaceAllString(content, "")
	content = mdStrong.ReplaceAllString(content, "$2")
	content = mdEmphasis.ReplaceAllString(content, "$1")
	return cleanLines(content)
}

// splitPipeTables removes runs of lines starting with '|' from content and
// returns them as tables.
func splitPipeTables(content string) (string, []string) {
	var body []string
	var tables []string
	var rows [][]string

	flush := func() {
		if len(rows) > 0 {
			tables = append(tables, tableText(rows))
			rows = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			flush()
			body = append(body, line)
			continue
		}
		if mdTableDivide.MatchString(trimmed) {
			continue
		}
		cells := strings.Split(strings.Trim(trimmed, "|"), "|")
		rows = append(rows, cells)
	}
	flush()

	return strings.Join(body, "\n"), tables
}

// cleanLines collapses runs of spaces and drops blank lines.
func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
