package facetemplate

import "errors"

var (
	// ErrFaceDetection indicates that refinement could not establish a
	// 1:1 correspondence between original and freshly detected faces.
	ErrFaceDetection = errors.New("face detection failed")

	// ErrImageEncoding indicates that an aligned face image could not
	// be serialized to the wire format.
	ErrImageEncoding = errors.New("image encoding failed")

	// ErrTemplateExtraction indicates that the embedding backend
	// returned an unsuccessful result.
	ErrTemplateExtraction = errors.New("face template extraction failed")

	// ErrDimensionMismatch indicates that templates of different
	// lengths were compared.
	ErrDimensionMismatch = errors.New("template dimension mismatch")
)
