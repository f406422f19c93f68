package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answers degrade to the top retrieved chunk.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service could not be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not be opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmptyResponse indicates an upstream model returned no usable content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrMisalignedPayload indicates texts, metadatas and ids differ in length.
	ErrMisalignedPayload = errors.New("misaligned chunk payload")

	// ErrReportNotFound indicates no rendered report exists for an id.
	ErrReportNotFound = errors.New("report not found")

	// ErrDriveNotConfigured indicates no remote folder was configured.
	ErrDriveNotConfigured = errors.New("drive folder not configured")
)
