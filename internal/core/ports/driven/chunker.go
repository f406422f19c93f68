package driven

// Chunker splits normalised text into overlapping fixed-size windows.
type Chunker interface {
	// Chunk returns windows in text order. Blank text yields no chunks.
	Chunk(text string) []string
}
