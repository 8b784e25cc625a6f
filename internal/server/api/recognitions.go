package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayusman/unistroke/internal/store"
)

// RecognitionHandler serves the recognition history.
type RecognitionHandler struct {
	store *store.Store
}

// NewRecognitionHandler creates a RecognitionHandler.
func NewRecognitionHandler(s *store.Store) *RecognitionHandler {
	return &RecognitionHandler{store: s}
}

type listRecognitionsResponse struct {
	Recognitions []*store.Recognition `json:"recognitions"`
}

type recognitionResponse struct {
	*store.Recognition
	Stroke [][2]float64 `json:"stroke"`
}

// ServeHTTP handles GET /api/recognitions[?limit=N] and
// GET /api/recognitions/{id}.
func (h *RecognitionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if id := itemID(r.URL.Path, "/api/recognitions"); id != "" {
		h.get(w, id)
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := h.store.Recognitions().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recognitions")
		return
	}
	if recs == nil {
		recs = []*store.Recognition{}
	}
	writeJSON(w, http.StatusOK, listRecognitionsResponse{Recognitions: recs})
}

func (h *RecognitionHandler) get(w http.ResponseWriter, id string) {
	rec, err := h.store.Recognitions().GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "recognition not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get recognition")
		return
	}
	stroke, err := h.store.Recognitions().Stroke(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get stroke")
		return
	}
	writeJSON(w, http.StatusOK, recognitionResponse{Recognition: rec, Stroke: stroke})
}
