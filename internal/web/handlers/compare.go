package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/appliedrecognition/face-template-r300/internal/facetemplate"
)

// CompareHandler scores candidate templates against a reference.
type CompareHandler struct{}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler() *CompareHandler {
	return &CompareHandler{}
}

type compareRequest struct {
	Reference  *facetemplate.Template  `json:"reference"`
	Candidates []facetemplate.Template `json:"candidates"`
}

type compareResponse struct {
	Scores []float64 `json:"scores"`
}

// Compare handles POST /api/v1/compare. Templates are expected to be
// pipeline output, already normalized.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Reference == nil || len(req.Reference.Data) == 0 {
		respondError(w, http.StatusBadRequest, "reference template is required")
		return
	}
	if len(req.Candidates) == 0 {
		respondError(w, http.StatusBadRequest, "at least one candidate template is required")
		return
	}

	scores, err := facetemplate.Compare(*req.Reference, req.Candidates)
	if err != nil {
		if errors.Is(err, facetemplate.ErrDimensionMismatch) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "comparison failed")
		return
	}

	respondJSON(w, http.StatusOK, compareResponse{Scores: scores})
}
