// Package vecmath holds the similarity helpers shared by in-process vector indexes.
package vecmath

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of a and b.
// Vectors of different length or zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored is a candidate position with its similarity.
type Scored struct {
	Index int
	Score float64
}

// TopK scores every candidate against query and returns the k best,
// highest first. Ties keep candidate order.
func TopK(query []float32, candidates [][]float32, k int) []Scored {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{Index: i, Score: Cosine(query, c)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Normalise scales v to unit length in place. Zero vectors are left unchanged.
func Normalise(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
