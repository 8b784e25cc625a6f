// Package testdata provides recorded strokes for tests.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

//go:embed strokes/*.json
var strokesFS embed.FS

// Stroke is a recorded stroke and the template it was drawn as.
type Stroke struct {
	Name   string       `json:"name"`
	Points [][2]float64 `json:"points"`
}

// LoadStroke loads a recorded stroke by name.
func LoadStroke(name string) (Stroke, error) {
	data, err := strokesFS.ReadFile("strokes/" + name + ".json")
	if err != nil {
		return Stroke{}, fmt.Errorf("load stroke %s: %w", name, err)
	}

	var s Stroke
	if err := json.Unmarshal(data, &s); err != nil {
		return Stroke{}, fmt.Errorf("decode stroke %s: %w", name, err)
	}
	return s, nil
}

// Strokes loads every recorded stroke, sorted by file name.
func Strokes() ([]Stroke, error) {
	entries, err := strokesFS.ReadDir("strokes")
	if err != nil {
		return nil, err
	}

	var strokes []Stroke
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		s, err := LoadStroke(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		if err != nil {
			return nil, err
		}
		strokes = append(strokes, s)
	}
	return strokes, nil
}
