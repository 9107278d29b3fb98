package cmd

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"

	"github.com/appliedrecognition/face-template-r300/internal/aligner"
	"github.com/appliedrecognition/face-template-r300/internal/config"
	"github.com/appliedrecognition/face-template-r300/internal/detector"
	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
	"github.com/appliedrecognition/face-template-r300/internal/recognition"
)

// newDetector builds the on-device pigo detector from config.
func newDetector(cfg *config.Config) (*detector.PigoDetector, error) {
	return detector.NewPigoDetector(cfg.Detector.FacefinderPath, cfg.Detector.PuplocPath, detector.Options{
		MinFaceSize:      cfg.Detector.MinFaceSize,
		MaxFaceSize:      cfg.Detector.MaxFaceSize,
		QualityThreshold: cfg.Detector.QualityThreshold,
	})
}

// newExtractor wires the full pipeline: pigo detection, eye-centred
// alignment and the remote recognition backend.
func newExtractor(cfg *config.Config) (*facetemplate.Extractor, facetemplate.Detector, error) {
	det, err := newDetector(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := recognition.NewClient(recognition.Config{
		URL:    cfg.Recognition.URL,
		APIKey: cfg.Recognition.APIKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return facetemplate.NewExtractor(det, aligner.New(), client), det, nil
}

// loadImage decodes an image file from disk.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// extractFromFile runs detection plus the template pipeline on one
// image file. faceLimit caps the number of faces processed (0 = all).
func extractFromFile(ctx context.Context, extractor *facetemplate.Extractor, det facetemplate.Detector, path string, faceLimit int) ([]facetemplate.Template, []facetemplate.FaceRegion, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, nil, err
	}

	faces, err := det.DetectFaces(ctx, img, faceLimit)
	if err != nil {
		return nil, nil, err
	}
	if len(faces) == 0 {
		return nil, nil, fmt.Errorf("no faces found in %s", path)
	}

	templates, err := extractor.ExtractTemplates(ctx, faces, img)
	if err != nil {
		return nil, nil, err
	}
	return templates, faces, nil
}
