package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var validate = validator.New()

// Validater is a request body that can check itself.
type Validater interface {
	Validate() map[string]string
}

func validateStruct(v any) map[string]string {
	if err := validate.Struct(v); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return map[string]string{"body": err.Error()}
		}
		out := make(map[string]string, len(errs))
		for _, e := range errs {
			out[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return out
	}
	return nil
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
}

// Validate checks the request fields.
func (r *ChatRequest) Validate() map[string]string {
	return validateStruct(r)
}

// ClearChatRequest is the optional body of POST /chat/clear.
type ClearChatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
}

// Validate checks the request fields.
func (r *ClearChatRequest) Validate() map[string]string {
	return validateStruct(r)
}

// ReportRequest is the body of POST /report.
type ReportRequest struct {
	SessionID      string   `json:"session_id"`
	Sections       []string `json:"sections" validate:"required,min=1,dive,required"`
	IncludeSummary bool     `json:"include_summary"`
}

// Validate checks the request fields.
func (r *ReportRequest) Validate() map[string]string {
	return validateStruct(r)
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"gte=0,lte=50"`
}

// Validate checks the request fields.
func (r *SearchRequest) Validate() map[string]string {
	return validateStruct(r)
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	SessionID string            `json:"session_id"`
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

// ReportResponse is the body returned by POST /report.
type ReportResponse struct {
	ReportID    string `json:"report_id"`
	DownloadURL string `json:"download_url"`
}

// SearchHit is one retrieved chunk.
type SearchHit struct {
	Text       string  `json:"text"`
	DocID      string  `json:"doc_id"`
	DocName    string  `json:"doc_name"`
	ChunkID    string  `json:"chunk_id"`
	SourceLink string  `json:"source_link,omitempty"`
	Score      float64 `json:"score"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	LLMEnabled     bool   `json:"llm_enabled"`
	LLMProvider    string `json:"llm_provider"`
	LLMModel       string `json:"llm_model"`
	EmbeddingMode  string `json:"embedding_mode"`
	EmbeddingModel string `json:"embedding_model"`
	VectorBackend  string `json:"vector_backend"`
}

// SearchHits flattens a query result into hits.
func SearchHits(r domain.QueryResult) []SearchHit {
	hits := make([]SearchHit, 0, r.Len())
	for i, text := range r.Documents {
		meta := r.Metadatas[i]
		hit := SearchHit{
			Text:       text,
			DocID:      meta.DocID,
			DocName:    meta.DocName,
			ChunkID:    meta.ChunkID,
			SourceLink: meta.SourceLink,
		}
		if i < len(r.Scores) {
			hit.Score = r.Scores[i]
		}
		hits = append(hits, hit)
	}
	return hits
}
