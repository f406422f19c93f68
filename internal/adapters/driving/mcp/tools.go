package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// defaultSearchLimit applies when the caller gives no limit.
const defaultSearchLimit = 5

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from ingested documents"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation to continue; omit to start a new one"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	SessionID string            `json:"session_id"`
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find similar chunks for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is one retrieved chunk.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	DocName    string  `json:"doc_name"`
	ChunkID    string  `json:"chunk_id"`
	SourceLink string  `json:"source_link,omitempty"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// ListDocumentsInput is the (empty) input schema for list_documents.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for list_documents.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput summarises one document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Source     string `json:"source"`
	SourceLink string `json:"source_link,omitempty"`
	Chunks     int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the ingested documents, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Retrieve the document chunks most similar to a query",
	}, s.handleSearch)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List all ingested documents",
		}, s.handleListDocuments)
	}
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Chat.Answer(ctx, input.SessionID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{
		SessionID: answer.SessionID,
		Answer:    answer.Answer,
		Citations: answer.Citations,
	}, nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Chat.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, results.Len()),
		Count:   results.Len(),
	}
	for i := range results.Documents {
		meta := results.Metadatas[i]
		output.Results[i] = SearchResultOutput{
			DocumentID: meta.DocID,
			DocName:    meta.DocName,
			ChunkID:    meta.ChunkID,
			SourceLink: meta.SourceLink,
			Content:    results.Documents[i],
		}
		if i < len(results.Scores) {
			output.Results[i].Score = results.Scores[i]
		}
	}

	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(&docs[i])
	}
	return nil, output, nil
}

func documentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:         doc.ID,
		Name:       doc.Name,
		Source:     doc.Source.String(),
		SourceLink: doc.SourceLink,
		Chunks:     doc.ChunkCount,
	}
}
