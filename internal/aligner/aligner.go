// Package aligner crops detected faces into the canonical images
// consumed by the embedding backend.
package aligner

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

// Size is the side length in pixels of the canonical aligned crop.
const Size = 112

// cropScale sets the crop side length as a multiple of the interocular
// distance. The vertical window is biased downward because the eyes
// sit in the upper third of a face.
const cropScale = 3.0

// Aligner implements facetemplate.Aligner with an eye-centred square
// crop scaled to Size x Size.
type Aligner struct{}

// New returns a stateless aligner.
func New() *Aligner {
	return &Aligner{}
}

// AlignFace returns a Size x Size crop centred between the eyes, sized
// by the interocular distance. The source image is never mutated.
func (a *Aligner) AlignFace(face facetemplate.FaceRegion, img image.Image) (image.Image, error) {
	dx := face.RightEye.X - face.LeftEye.X
	dy := face.RightEye.Y - face.LeftEye.Y
	interocular := math.Hypot(dx, dy)
	if interocular == 0 {
		return nil, errors.New("aligner: coincident eye landmarks")
	}

	centre := face.EyeCenter()
	side := interocular * cropScale
	crop := image.Rect(
		int(math.Round(centre.X-side/2)),
		int(math.Round(centre.Y-side*0.4)),
		int(math.Round(centre.X+side/2)),
		int(math.Round(centre.Y+side*0.6)),
	)
	crop = crop.Intersect(img.Bounds())
	if crop.Empty() {
		return nil, errors.New("aligner: face region outside image bounds")
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst, nil
}
