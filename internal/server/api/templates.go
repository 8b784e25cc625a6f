package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
)

// TemplateHandler lists loaded templates and records new ones.
type TemplateHandler struct {
	rec Recognizer
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(rec Recognizer) *TemplateHandler {
	return &TemplateHandler{rec: rec}
}

type templateResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type listTemplatesResponse struct {
	Templates []templateResponse `json:"templates"`
}

type createTemplateRequest struct {
	Name   string       `json:"name"`
	Points [][2]float64 `json:"points"`
}

func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TemplateHandler) list(w http.ResponseWriter) {
	names := h.rec.Templates()
	resp := listTemplatesResponse{Templates: make([]templateResponse, len(names))}
	for i, n := range names {
		resp.Templates[i] = templateResponse{Index: i, Name: n}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Points) < 2 {
		writeError(w, http.StatusBadRequest, "at least 2 points are required")
		return
	}

	err := h.rec.AddTemplate(req.Name, req.Points)
	switch {
	case errors.Is(err, app.ErrDuplicateTemplate):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, gesture.ErrTemplateCapacity):
		writeError(w, http.StatusInsufficientStorage, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	names := h.rec.Templates()
	writeJSON(w, http.StatusCreated, templateResponse{Index: len(names) - 1, Name: req.Name})
}
