package ai

import "math"

// Normalize normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector the values are divided
// by 1 instead, so the result stays a zero vector of the same length.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	// Can't normalize a zero vector
	if magnitude == 0 {
		magnitude = 1
	}

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// FitDimension truncates or zero-pads a vector to exactly dim entries.
// Provider models occasionally change output width; storage requires one
// fixed dimension per deployment.
func FitDimension(v []float32, dim int) []float32 {
	if len(v) == dim {
		return v
	}
	if len(v) > dim {
		return v[:dim]
	}
	result := make([]float32, dim)
	copy(result, v)
	return result
}
