// Package api provides the JSON handlers behind the HTTP server.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/unistroke/internal/app"
)

// maxBodySize bounds request bodies; a stroke of 10k points fits easily.
const maxBodySize = 1 << 20

// Recognizer is the part of the application the handlers use.
type Recognizer interface {
	Templates() []string
	AddTemplate(name string, points [][2]float64) error
	RecognizeStroke(points [][2]float64) (app.Result, error)
	Result() app.Result
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a size-limited JSON body into v, writing a 400 on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// itemID returns the path segment after prefix, or "" for the collection.
func itemID(path, prefix string) string {
	return strings.Trim(strings.TrimPrefix(path, prefix), "/")
}
