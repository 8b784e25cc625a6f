// Package catalog holds named gesture template definitions and loads them
// into a recognizer.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/unistroke/internal/gesture"
)

// ErrEmptyCatalog is returned when a catalog has no templates.
var ErrEmptyCatalog = errors.New("catalog has no templates")

// Coord is an [x, y] pair as written in catalog files.
type Coord [2]float64

// Entry is one named template definition.
type Entry struct {
	Name       string  `json:"name"`
	Points     []Coord `json:"points"`
	Normalized bool    `json:"normalized,omitempty"`
}

// Catalog is an ordered list of template definitions. The position of an
// entry is its label.
type Catalog struct {
	Templates []Entry `json:"templates"`
}

// Names returns the template names in label order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Templates))
	for i, e := range c.Templates {
		names[i] = e.Name
	}
	return names
}

// Validate checks that every entry is named, unique and has points.
func (c *Catalog) Validate() error {
	if len(c.Templates) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(c.Templates))
	for i, e := range c.Templates {
		if e.Name == "" {
			return fmt.Errorf("template %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate template name %q", e.Name)
		}
		seen[e.Name] = true
		if len(e.Points) == 0 {
			return fmt.Errorf("template %q has no points", e.Name)
		}
	}
	return nil
}

// Load reads a catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the catalog to path as indented JSON.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Points converts coordinates to points of type T. Integer types round
// half up.
func Points[T gesture.Number](coords []Coord) []gesture.Point[T] {
	pts := make([]gesture.Point[T], len(coords))
	for i, c := range coords {
		pts[i] = gesture.FromVec[T](gesture.Pt(c[0], c[1]).Vec())
	}
	return pts
}

// Coords converts points back to coordinates.
func Coords[T gesture.Number](pts []gesture.Point[T]) []Coord {
	coords := make([]Coord, len(pts))
	for i, p := range pts {
		coords[i] = Coord{float64(p.X), float64(p.Y)}
	}
	return coords
}

// LoadInto loads every entry into r, labelled by position. Entries marked
// normalized skip the normalization pipeline.
func LoadInto[T gesture.Number](c *Catalog, r *gesture.ShapeRecognizer[T]) error {
	for i, e := range c.Templates {
		pts := Points[T](e.Points)
		var err error
		if e.Normalized {
			err = r.LoadTemplateNormalized(pts, i)
		} else {
			err = r.LoadTemplate(pts, i)
		}
		if err != nil {
			return fmt.Errorf("failed to load template %q: %w", e.Name, err)
		}
	}
	return nil
}

// Normalized returns a copy of c with every entry in the canonical form of
// r, ready for LoadTemplateNormalized on a recognizer with the same
// configuration.
func Normalized[T gesture.Number](c *Catalog, r *gesture.ShapeRecognizer[T]) (*Catalog, error) {
	out := &Catalog{Templates: make([]Entry, len(c.Templates))}
	dst := make([]gesture.Point[T], r.NumPoints())
	for i, e := range c.Templates {
		if e.Normalized {
			out.Templates[i] = e
			continue
		}
		if err := r.Normalize(Points[T](e.Points), dst); err != nil {
			return nil, fmt.Errorf("failed to normalize template %q: %w", e.Name, err)
		}
		out.Templates[i] = Entry{Name: e.Name, Points: Coords(dst), Normalized: true}
	}
	return out, nil
}
