// Package local provides an in-process embedding service that needs no network.
//
// Texts are tokenised into lowercase words and word bigrams, and each token is
// hashed into a fixed number of signed buckets. Vectors are L2-normalised, so
// cosine similarity reduces to lexical overlap. Quality is far below a neural
// model, but results are stable across restarts.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default bucket count.
const DefaultDimensions = 384

// ModelName is reported for every hashing embedder.
const ModelName = "hashing-384"

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// EmbeddingService embeds text by feature hashing.
type EmbeddingService struct {
	dimensions int
	stopwords  map[string]struct{}
}

// NewEmbeddingService creates a hashing embedder with the given bucket count.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		dimensions: dimensions,
		stopwords:  defaultStopwords(),
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	return s.vector(text), nil
}

// EmbedBatch generates one embedding per text.
func (s *EmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = s.vector(text)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := s.stopwords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func (s *EmbeddingService) vector(text string) []float32 {
	v := make([]float64, s.dimensions)
	tokens := s.tokenize(text)

	for i, tok := range tokens {
		s.add(v, tok, 1)
		if i > 0 {
			s.add(v, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float32, s.dimensions)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}

// add hashes token into a bucket; a second hash bit picks the sign so
// collisions tend to cancel rather than accumulate.
func (s *EmbeddingService) add(v []float64, token string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	sum := h.Sum64()

	bucket := int(sum % uint64(s.dimensions))
	if (sum>>63)&1 == 1 {
		weight = -weight
	}
	v[bucket] += weight
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "has", "in",
		"is", "it", "its", "of", "on", "or", "that", "the", "to", "was", "were", "will", "with",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
