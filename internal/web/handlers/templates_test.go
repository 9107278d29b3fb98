package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

type stubDetector struct {
	faces []facetemplate.FaceRegion
	err   error
}

func (d *stubDetector) DetectFaces(ctx context.Context, img image.Image, limit int) ([]facetemplate.FaceRegion, error) {
	if d.err != nil {
		return nil, d.err
	}
	if limit > 0 && len(d.faces) > limit {
		return d.faces[:limit], nil
	}
	return d.faces, nil
}

type stubAligner struct{}

func (a *stubAligner) AlignFace(face facetemplate.FaceRegion, img image.Image) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 112, 112)), nil
}

type stubGenerator struct {
	err error
}

func (g *stubGenerator) GenerateEmbeddings(ctx context.Context, alignedImages []image.Image) ([]facetemplate.Template, error) {
	if g.err != nil {
		return nil, g.err
	}
	templates := make([]facetemplate.Template, len(alignedImages))
	for i := range templates {
		data := make([]float32, facetemplate.TemplateLength)
		data[i%facetemplate.TemplateLength] = 1
		templates[i] = facetemplate.Template{Data: data}
	}
	return templates, nil
}

func testFace(x float64) facetemplate.FaceRegion {
	return facetemplate.FaceRegion{
		Bounds:   image.Rect(int(x)-20, 80, int(x)+20, 120),
		LeftEye:  facetemplate.Point{X: x - 10, Y: 100},
		RightEye: facetemplate.Point{X: x + 10, Y: 100},
	}
}

func newTestHandler(detector facetemplate.Detector, generator facetemplate.EmbeddingGenerator) *TemplatesHandler {
	extractor := facetemplate.NewExtractor(detector, &stubAligner{}, generator)
	return NewTemplatesHandler(extractor, detector)
}

// multipartImage builds a multipart body with a JPEG in the "file" field.
func multipartImage(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "face.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if err := jpeg.Encode(part, image.NewRGBA(image.Rect(0, 0, 320, 240)), nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestExtractMissingFile(t *testing.T) {
	handler := newTestHandler(&stubDetector{}, &stubGenerator{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/templates", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()

	handler.Extract(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestExtractNotMultipart(t *testing.T) {
	handler := newTestHandler(&stubDetector{}, &stubGenerator{})

	req := httptest.NewRequest("POST", "/api/v1/templates", bytes.NewBufferString("just bytes"))
	req.Header.Set("Content-Type", "application/octet-stream")
	recorder := httptest.NewRecorder()

	handler.Extract(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestExtractNoFaces(t *testing.T) {
	handler := newTestHandler(&stubDetector{}, &stubGenerator{})

	body, contentType := multipartImage(t)
	req := httptest.NewRequest("POST", "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	handler.Extract(recorder, req)

	assertStatusCode(t, recorder, http.StatusUnprocessableEntity)
}

func TestExtractBackendFailure(t *testing.T) {
	detector := &stubDetector{faces: []facetemplate.FaceRegion{testFace(100)}}
	handler := newTestHandler(detector, &stubGenerator{err: facetemplate.ErrTemplateExtraction})

	body, contentType := multipartImage(t)
	req := httptest.NewRequest("POST", "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	handler.Extract(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadGateway)
}

func TestExtractSuccess(t *testing.T) {
	detector := &stubDetector{faces: []facetemplate.FaceRegion{testFace(100), testFace(220)}}
	handler := newTestHandler(detector, &stubGenerator{})

	body, contentType := multipartImage(t)
	req := httptest.NewRequest("POST", "/api/v1/templates", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	handler.Extract(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var results []TemplateResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results; want 2", len(results))
	}
	seen := make(map[string]bool)
	for i, result := range results {
		if result.ID == "" || seen[result.ID] {
			t.Errorf("result %d has missing or duplicate id %q", i, result.ID)
		}
		seen[result.ID] = true
		if result.Template.Version != facetemplate.Version {
			t.Errorf("result %d version = %d; want %d", i, result.Template.Version, facetemplate.Version)
		}
		if len(result.Template.Data) != facetemplate.TemplateLength {
			t.Errorf("result %d template length = %d; want %d", i, len(result.Template.Data), facetemplate.TemplateLength)
		}
	}
}
