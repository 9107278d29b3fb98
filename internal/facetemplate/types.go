// Package facetemplate implements extraction and comparison of R300
// face templates: versioned 512-element embedding vectors produced by
// a recognition backend from aligned face crops. The package contains
// the numeric core (refinement, normalization, similarity scoring) and
// the pipeline that composes it with pluggable detection, alignment
// and embedding capabilities.
package facetemplate

import (
	"context"
	"image"
)

const (
	// Version tags every template produced by this library.
	Version = 300

	// TemplateLength is the embedding dimensionality of the R300 family.
	TemplateLength = 512
)

// Point is a 2D image coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceRegion is a detected face: bounding geometry plus eye landmarks.
// Regions are caller-supplied, read-only inputs to the pipeline.
type FaceRegion struct {
	Bounds   image.Rectangle `json:"bounds"`
	LeftEye  Point           `json:"left_eye"`
	RightEye Point           `json:"right_eye"`
	Score    float64         `json:"score,omitempty"`
}

// EyeCenter returns the midpoint between the two eye landmarks.
func (f FaceRegion) EyeCenter() Point {
	return Point{
		X: (f.LeftEye.X + f.RightEye.X) / 2,
		Y: (f.LeftEye.Y + f.RightEye.Y) / 2,
	}
}

// Template is a versioned face embedding vector. Templates returned by
// the pipeline are L2-normalized so that the dot product of two
// templates equals their cosine similarity.
type Template struct {
	Version int       `json:"version"`
	Data    []float32 `json:"data"`
}

// Detector locates faces in an image. limit caps the number of
// detections returned (0 = no limit); results are ordered by
// descending detection score.
type Detector interface {
	DetectFaces(ctx context.Context, img image.Image, limit int) ([]FaceRegion, error)
}

// Aligner crops a face region into the canonical image expected by the
// embedding backend.
type Aligner interface {
	AlignFace(face FaceRegion, img image.Image) (image.Image, error)
}

// EmbeddingGenerator produces one raw template per aligned face image,
// in input order. Implementations may call a remote service, run an
// on-device model, or stub the backend for testing.
type EmbeddingGenerator interface {
	GenerateEmbeddings(ctx context.Context, alignedImages []image.Image) ([]Template, error)
}
