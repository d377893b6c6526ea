// Package vecmath holds the small amount of vector arithmetic the
// question index needs.
package vecmath

import "math"

// CosineDistance returns 1 minus the cosine similarity of a and b,
// clamped to be non-negative so float error never produces a distance
// below zero. Mismatched lengths and zero vectors yield the maximum
// distance of 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	distance := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	if distance < 0 {
		return 0
	}
	return distance
}
