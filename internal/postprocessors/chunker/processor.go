// Package chunker provides fixed-window text chunking with overlap.
package chunker

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 900

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 150

// Processor splits text into fixed-size character windows.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the effective window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the effective overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk normalises text and splits it into windows of ChunkSize characters,
// each starting ChunkSize-Overlap characters after the previous one.
// The last window ends at the end of the text.
func (p *Processor) Chunk(text string) []string {
	runes := []rune(Normalise(text))
	n := len(runes)
	if n == 0 {
		return nil
	}

	step := p.chunkSize - p.overlap
	chunks := make([]string, 0, n/step+1)

	start := 0
	for {
		end := min(start+p.chunkSize, n)
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
		start += step
	}

	return chunks
}

// Normalise collapses every run of Unicode whitespace, including
// non-breaking and ideographic spaces, to a single space and trims the result.
func Normalise(text string) string {
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}
