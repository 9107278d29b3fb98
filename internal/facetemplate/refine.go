package facetemplate

import (
	"context"
	"fmt"
	"image"
	"math"
)

// Refine re-runs detection on img and re-associates each face in faces
// with the freshly detected face whose eye centre is nearest. It fails
// with ErrFaceDetection when the detector does not return exactly
// len(faces) detections; partial results are never produced.
//
// Matching is independent nearest-neighbour per original face with a
// stable first-minimum tie break. Two originals with nearly coincident
// eye centres can select the same detection; the final count check
// guards the degenerate cases.
func Refine(ctx context.Context, faces []FaceRegion, img image.Image, detector Detector) ([]FaceRegion, error) {
	// A limit of 0 means "no limit" to detectors, so detection must not
	// run for an empty input set.
	if len(faces) == 0 {
		return nil, nil
	}

	detected, err := detector.DetectFaces(ctx, img, len(faces))
	if err != nil {
		return nil, err
	}
	if len(detected) != len(faces) {
		return nil, fmt.Errorf("%w: expected %d faces, detected %d",
			ErrFaceDetection, len(faces), len(detected))
	}

	refined := make([]FaceRegion, 0, len(faces))
	for _, face := range faces {
		centre := face.EyeCenter()
		best := -1
		bestDist := math.Inf(1)
		for i, candidate := range detected {
			if d := eyeDistance(centre, candidate.EyeCenter()); d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best >= 0 {
			refined = append(refined, detected[best])
		}
	}
	if len(refined) != len(faces) {
		return nil, fmt.Errorf("%w: matched %d of %d faces",
			ErrFaceDetection, len(refined), len(faces))
	}
	return refined, nil
}

func eyeDistance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
