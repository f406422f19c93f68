package domain

// ChunkMetadata is stored alongside every indexed chunk.
type ChunkMetadata struct {
	DocID      string `json:"doc_id"`
	DocName    string `json:"doc_name"`
	ChunkID    string `json:"chunk_id"`
	SourceLink string `json:"source_link"`
}

// ChunkPayload holds index-aligned texts, metadata and ids ready for the vector index.
type ChunkPayload struct {
	Texts     []string
	Metadatas []ChunkMetadata
	IDs       []string
}

// Len returns the number of chunks in the payload.
func (p ChunkPayload) Len() int {
	return len(p.Texts)
}

// Aligned reports whether all three slices have equal length.
func (p ChunkPayload) Aligned() bool {
	return len(p.Texts) == len(p.Metadatas) && len(p.Texts) == len(p.IDs)
}

// QueryResult holds parallel slices of matches ordered by decreasing similarity.
type QueryResult struct {
	Documents []string
	Metadatas []ChunkMetadata
	IDs       []string
	Scores    []float64
}

// Len returns the number of matches.
func (r QueryResult) Len() int {
	return len(r.Documents)
}

// Empty reports whether the query matched nothing.
func (r QueryResult) Empty() bool {
	return len(r.Documents) == 0
}
