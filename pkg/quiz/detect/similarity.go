package detect

import "math"

// CosineSimilarity computes the cosine of the angle between two embedding
// vectors. Returns 0 for mismatched or zero-magnitude inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// roundScore rounds to 4 decimals, matching what clients display.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
