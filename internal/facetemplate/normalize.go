package facetemplate

import "math"

// Normalize scales v to unit L2 length in place. A zero vector is left
// unchanged. Accumulation happens in float64 to limit rounding error on
// long vectors.
func Normalize(v []float32) {
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
