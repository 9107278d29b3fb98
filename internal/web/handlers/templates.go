package handlers

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/google/uuid"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

// maxUploadSize caps uploaded image size at 32 MB.
const maxUploadSize = 32 << 20

// TemplatesHandler extracts face templates from uploaded images.
type TemplatesHandler struct {
	extractor *facetemplate.Extractor
	detector  facetemplate.Detector
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(extractor *facetemplate.Extractor, detector facetemplate.Detector) *TemplatesHandler {
	return &TemplatesHandler{
		extractor: extractor,
		detector:  detector,
	}
}

// TemplateResult is one extracted template in the API response.
type TemplateResult struct {
	ID       string                  `json:"id"`
	Face     facetemplate.FaceRegion `json:"face"`
	Template facetemplate.Template   `json:"template"`
}

// Extract handles POST /api/v1/templates. It expects a multipart form
// with the image in the "file" field and responds with one template
// per detected face.
func (h *TemplatesHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unsupported or corrupt image")
		return
	}

	faces, err := h.detector.DetectFaces(r.Context(), img, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "face detection failed")
		return
	}
	if len(faces) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "no faces found in image")
		return
	}

	templates, err := h.extractor.ExtractTemplates(r.Context(), faces, img)
	if err != nil {
		switch {
		case errors.Is(err, facetemplate.ErrFaceDetection):
			respondError(w, http.StatusUnprocessableEntity, "face detection failed")
		case errors.Is(err, facetemplate.ErrTemplateExtraction):
			respondError(w, http.StatusBadGateway, "recognition backend failed")
		default:
			respondError(w, http.StatusInternalServerError, "template extraction failed")
		}
		return
	}

	results := make([]TemplateResult, 0, len(templates))
	for i, tmpl := range templates {
		results = append(results, TemplateResult{
			ID:       uuid.New().String(),
			Face:     faces[i],
			Template: tmpl,
		})
	}
	respondJSON(w, http.StatusOK, results)
}
