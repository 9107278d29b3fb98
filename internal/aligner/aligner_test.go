package aligner

import (
	"image"
	"image/color"
	"testing"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

var _ facetemplate.Aligner = (*Aligner)(nil)

func gradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			gray := uint8((x + y) * 255 / (width + height))
			img.Set(x, y, color.RGBA{gray, gray, gray, 255})
		}
	}
	return img
}

func TestAlignFaceOutputSize(t *testing.T) {
	face := facetemplate.FaceRegion{
		Bounds:   image.Rect(80, 80, 240, 240),
		LeftEye:  facetemplate.Point{X: 120, Y: 140},
		RightEye: facetemplate.Point{X: 200, Y: 140},
	}

	crop, err := New().AlignFace(face, gradientImage(320, 320))
	if err != nil {
		t.Fatalf("AlignFace returned error: %v", err)
	}

	bounds := crop.Bounds()
	if bounds.Dx() != Size || bounds.Dy() != Size {
		t.Errorf("aligned crop is %dx%d; want %dx%d", bounds.Dx(), bounds.Dy(), Size, Size)
	}
}

func TestAlignFaceSourceUnchanged(t *testing.T) {
	src := gradientImage(320, 320)
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	face := facetemplate.FaceRegion{
		LeftEye:  facetemplate.Point{X: 120, Y: 140},
		RightEye: facetemplate.Point{X: 200, Y: 140},
	}
	if _, err := New().AlignFace(face, src); err != nil {
		t.Fatalf("AlignFace returned error: %v", err)
	}

	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatal("source image was mutated by alignment")
		}
	}
}

func TestAlignFaceCoincidentEyes(t *testing.T) {
	face := facetemplate.FaceRegion{
		LeftEye:  facetemplate.Point{X: 100, Y: 100},
		RightEye: facetemplate.Point{X: 100, Y: 100},
	}

	if _, err := New().AlignFace(face, gradientImage(320, 320)); err == nil {
		t.Error("expected error for coincident eye landmarks, got nil")
	}
}

func TestAlignFaceOutsideImage(t *testing.T) {
	face := facetemplate.FaceRegion{
		LeftEye:  facetemplate.Point{X: 900, Y: 900},
		RightEye: facetemplate.Point{X: 940, Y: 900},
	}

	if _, err := New().AlignFace(face, gradientImage(320, 320)); err == nil {
		t.Error("expected error for face outside image bounds, got nil")
	}
}

func TestAlignFaceTiltedEyes(t *testing.T) {
	// Roll does not fail alignment; the crop follows the eye centre.
	face := facetemplate.FaceRegion{
		LeftEye:  facetemplate.Point{X: 120, Y: 130},
		RightEye: facetemplate.Point{X: 200, Y: 160},
	}

	crop, err := New().AlignFace(face, gradientImage(320, 320))
	if err != nil {
		t.Fatalf("AlignFace returned error: %v", err)
	}
	if crop.Bounds().Dx() != Size {
		t.Errorf("aligned crop width = %d; want %d", crop.Bounds().Dx(), Size)
	}
}
