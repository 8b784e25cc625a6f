package api

import (
	"net/http"
)

// RecognizeHandler recognizes posted strokes and reports the live result.
type RecognizeHandler struct {
	rec Recognizer
}

// NewRecognizeHandler creates a RecognizeHandler.
func NewRecognizeHandler(rec Recognizer) *RecognizeHandler {
	return &RecognizeHandler{rec: rec}
}

type recognizeRequest struct {
	Points [][2]float64 `json:"points"`
}

// ServeHTTP handles POST (recognize the body) and GET (latest live result).
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.rec.Result())
	case http.MethodPost:
		var req recognizeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Points) == 0 {
			writeError(w, http.StatusBadRequest, "points are required")
			return
		}
		res, err := h.rec.RecognizeStroke(req.Points)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
