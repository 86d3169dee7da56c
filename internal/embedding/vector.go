// Package embedding holds the face embedding vector type, its persisted text
// codec, and the similarity math used by the matching engine.
package embedding

import (
	"errors"
	"math"
)

// Vector is a face embedding produced by the extractor.
type Vector = []float32

// ErrDimensionMismatch is returned when two vectors of different lengths are
// compared, or a decoded vector does not match the configured dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Normalize returns an L2-normalized copy of v. A zero vector is returned
// unchanged since it has no direction to preserve.
func Normalize(v Vector) Vector {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	out := make(Vector, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}

	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// CosineSimilarity computes the cosine similarity between two embedding vectors.
// Returns a value clamped to [-1, 1], where 1 means identical direction.
// Vectors of different lengths are a caller bug, reported as ErrDimensionMismatch.
func CosineSimilarity(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, ErrDimensionMismatch
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))

	// Floating point accumulation can push the result a hair outside [-1, 1].
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim, nil
}
