package facetemplate

import (
	"context"
	"fmt"
	"image"
)

// Extractor runs the template pipeline: refinement, alignment,
// embedding generation and normalization. All three capabilities are
// injected, so remote, on-device and test backends are interchangeable.
//
// An Extractor holds no mutable state; concurrent ExtractTemplates
// calls need no coordination.
type Extractor struct {
	detector  Detector
	aligner   Aligner
	generator EmbeddingGenerator
}

// NewExtractor builds a pipeline from the given capabilities.
func NewExtractor(detector Detector, aligner Aligner, generator EmbeddingGenerator) *Extractor {
	return &Extractor{
		detector:  detector,
		aligner:   aligner,
		generator: generator,
	}
}

// ExtractTemplates produces one normalized, version-tagged template per
// input face, in input order. Either the full set is returned or an
// error; no partial results. Detection, alignment and generation
// failures all propagate unwrapped.
func (e *Extractor) ExtractTemplates(ctx context.Context, faces []FaceRegion, img image.Image) ([]Template, error) {
	refined, err := Refine(ctx, faces, img, e.detector)
	if err != nil {
		return nil, err
	}

	aligned := make([]image.Image, 0, len(refined))
	for _, face := range refined {
		crop, err := e.aligner.AlignFace(face, img)
		if err != nil {
			return nil, err
		}
		aligned = append(aligned, crop)
	}

	templates, err := e.generator.GenerateEmbeddings(ctx, aligned)
	if err != nil {
		return nil, err
	}
	if len(templates) != len(aligned) {
		return nil, fmt.Errorf("%w: backend returned %d templates for %d faces",
			ErrTemplateExtraction, len(templates), len(aligned))
	}

	for i := range templates {
		Normalize(templates[i].Data)
		templates[i].Version = Version
	}
	return templates, nil
}
