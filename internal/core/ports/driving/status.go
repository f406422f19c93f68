package driving

// Status describes how the AI capabilities were resolved.
type Status struct {
	LLMEnabled     bool
	LLMProvider    string
	LLMModel       string
	EmbeddingMode  string
	EmbeddingModel string
	VectorBackend  string
}

// StatusService reports runtime capability status.
type StatusService interface {
	Status() Status
}
