// Package detector provides an on-device face detector backed by pigo
// cascade classifiers, with puploc pupil localization for the eye
// landmarks the refinement and alignment steps need.
package detector

import (
	"context"
	"fmt"
	"image"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

const (
	defaultMinFaceSize      = 20
	defaultMaxFaceSize      = 1000
	defaultQualityThreshold = 5.0

	// perturbs trades puploc localization accuracy for speed.
	perturbs = 63
)

// Options tune cascade scanning. Zero values fall back to defaults.
type Options struct {
	MinFaceSize      int
	MaxFaceSize      int
	QualityThreshold float64
}

func (o Options) withDefaults() Options {
	if o.MinFaceSize <= 0 {
		o.MinFaceSize = defaultMinFaceSize
	}
	if o.MaxFaceSize <= 0 {
		o.MaxFaceSize = defaultMaxFaceSize
	}
	if o.QualityThreshold <= 0 {
		o.QualityThreshold = defaultQualityThreshold
	}
	return o
}

// PigoDetector implements facetemplate.Detector.
type PigoDetector struct {
	classifier *pigo.Pigo
	puploc     *pigo.PuplocCascade
	opts       Options
}

// NewPigoDetector loads the facefinder and puploc cascade files.
func NewPigoDetector(facefinderPath, puplocPath string, opts Options) (*PigoDetector, error) {
	cascade, err := os.ReadFile(facefinderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read facefinder cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack facefinder cascade: %w", err)
	}

	puplocData, err := os.ReadFile(puplocPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read puploc cascade: %w", err)
	}
	plc, err := pigo.NewPuplocCascade().UnpackCascade(puplocData)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack puploc cascade: %w", err)
	}

	return &PigoDetector{
		classifier: classifier,
		puploc:     plc,
		opts:       opts.withDefaults(),
	}, nil
}

// DetectFaces runs the cascade over img and returns up to limit faces
// ordered by descending detection score (0 = no limit).
func (d *PigoDetector) DetectFaces(ctx context.Context, img image.Image, limit int) ([]facetemplate.FaceRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	imgParams := pigo.ImageParams{
		Pixels: pixels,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}
	cParams := pigo.CascadeParams{
		MinSize:     d.opts.MinFaceSize,
		MaxSize:     d.opts.MaxFaceSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: imgParams,
	}

	dets := d.classifier.RunCascade(cParams, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	faces := make([]facetemplate.FaceRegion, 0, len(dets))
	for _, det := range dets {
		if float64(det.Q) < d.opts.QualityThreshold {
			continue
		}
		faces = append(faces, d.toRegion(det, imgParams))
	}

	sort.SliceStable(faces, func(i, j int) bool { return faces[i].Score > faces[j].Score })
	if limit > 0 && len(faces) > limit {
		faces = faces[:limit]
	}
	return faces, nil
}

// toRegion converts a clustered detection to a face region with eye landmarks.
func (d *PigoDetector) toRegion(det pigo.Detection, imgParams pigo.ImageParams) facetemplate.FaceRegion {
	half := det.Scale / 2
	return facetemplate.FaceRegion{
		Bounds:   image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half),
		LeftEye:  d.locateEye(det, imgParams, -0.175),
		RightEye: d.locateEye(det, imgParams, 0.185),
		Score:    float64(det.Q),
	}
}

// locateEye runs puploc around the expected pupil position. colOffset
// is the horizontal distance from the face centre as a fraction of the
// detection scale; negative for the left eye, positive for the right.
func (d *PigoDetector) locateEye(det pigo.Detection, imgParams pigo.ImageParams, colOffset float64) facetemplate.Point {
	seed := pigo.Puploc{
		Row:      det.Row - int(0.075*float64(det.Scale)),
		Col:      det.Col + int(colOffset*float64(det.Scale)),
		Scale:    float32(det.Scale) * 0.25,
		Perturbs: perturbs,
	}
	eye := d.puploc.RunDetector(seed, imgParams, 0.0, false)
	if eye.Row <= 0 || eye.Col <= 0 {
		// Localization failed; fall back to the seed position.
		return facetemplate.Point{X: float64(seed.Col), Y: float64(seed.Row)}
	}
	return facetemplate.Point{X: float64(eye.Col), Y: float64(eye.Row)}
}
