package facetemplate

import "fmt"

// Compare scores each candidate against the reference template and
// returns one score per candidate, in input order. Templates must be
// L2-normalized: for unit vectors the dot product equals the cosine of
// the angle between them. Scores are clamped to [0, 1].
func Compare(reference Template, candidates []Template) ([]float64, error) {
	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		if len(candidate.Data) != len(reference.Data) {
			return nil, fmt.Errorf("%w: candidate %d has %d elements, reference has %d",
				ErrDimensionMismatch, i, len(candidate.Data), len(reference.Data))
		}
		var dot float64
		for j := range reference.Data {
			dot += float64(reference.Data[j]) * float64(candidate.Data[j])
		}
		// Clamp to handle floating point error.
		if dot < 0 {
			dot = 0
		}
		if dot > 1 {
			dot = 1
		}
		scores[i] = dot
	}
	return scores, nil
}
