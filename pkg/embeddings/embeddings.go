// Package embeddings produces stable placeholder feature vectors for
// documents. Vectors are derived from the document id alone, so repeated
// calls for the same document always agree. No model is involved.
package embeddings

import "math"

// Size is the length of a generated vector.
const Size = 16

// lcgMultiplier and lcgIncrement are the classic Numerical Recipes
// constants; the recurrence runs modulo 2^32.
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// Vector returns a deterministic pseudo-random vector for the given
// document id. Each element lies in [-1, 1) and is rounded to four
// decimal places.
func Vector(documentID string) []float64 {
	var seed uint32
	for _, r := range documentID {
		seed = seed*31 + uint32(r)
	}

	vec := make([]float64, Size)
	for i := 0; i < Size; i++ {
		seed = seed*lcgMultiplier + lcgIncrement
		val := float64(seed%20000)/10000 - 1
		vec[i] = math.Round(val*10000) / 10000
	}
	return vec
}
