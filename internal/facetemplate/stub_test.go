package facetemplate

import (
	"context"
	"image"
)

// Stub capability implementations shared by refinement and pipeline tests.

type stubDetector struct {
	faces    []FaceRegion
	err      error
	gotLimit int
}

func (d *stubDetector) DetectFaces(ctx context.Context, img image.Image, limit int) ([]FaceRegion, error) {
	d.gotLimit = limit
	if d.err != nil {
		return nil, d.err
	}
	return d.faces, nil
}

type stubAligner struct {
	err   error
	calls int
}

func (a *stubAligner) AlignFace(face FaceRegion, img image.Image) (image.Image, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return image.NewRGBA(image.Rect(0, 0, 112, 112)), nil
}

type stubGenerator struct {
	templates []Template
	err       error
	gotCount  int
}

func (g *stubGenerator) GenerateEmbeddings(ctx context.Context, alignedImages []image.Image) ([]Template, error) {
	g.gotCount = len(alignedImages)
	if g.err != nil {
		return nil, g.err
	}
	return g.templates, nil
}

// faceAt builds a face region with eye landmarks straddling (x, y).
func faceAt(x, y float64) FaceRegion {
	return FaceRegion{
		Bounds:   image.Rect(int(x)-20, int(y)-15, int(x)+20, int(y)+25),
		LeftEye:  Point{X: x - 10, Y: y},
		RightEye: Point{X: x + 10, Y: y},
	}
}
