package gesture

import "fmt"

// Template is a normalized stroke tagged with a caller-defined label.
type Template[T Number] struct {
	Label  int
	points []Point[T]
}

// Points returns the template's normalized points. The slice must not be
// modified.
func (t *Template[T]) Points() []Point[T] {
	return t.points
}

// TemplateSet is a fixed number of template slots of equal length, filled
// once during loading and read-only afterwards.
type TemplateSet[T Number] struct {
	templates []Template[T]
	loaded    int
}

// NewTemplateSet allocates capacity templates of length points each.
func NewTemplateSet[T Number](capacity, length int) (*TemplateSet[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: template capacity %d", ErrInvalidConfig, capacity)
	}
	if length < 2 {
		return nil, fmt.Errorf("%w: template length %d", ErrInvalidConfig, length)
	}
	backing := make([]Point[T], capacity*length)
	s := &TemplateSet[T]{templates: make([]Template[T], capacity)}
	for i := range s.templates {
		s.templates[i].points = backing[i*length : (i+1)*length : (i+1)*length]
	}
	return s, nil
}

// Len returns the number of loaded templates.
func (s *TemplateSet[T]) Len() int {
	return s.loaded
}

// Cap returns the number of template slots.
func (s *TemplateSet[T]) Cap() int {
	return len(s.templates)
}

// At returns the i-th loaded template in load order.
func (s *TemplateSet[T]) At(i int) (*Template[T], bool) {
	if i < 0 || i >= s.loaded {
		return nil, false
	}
	return &s.templates[i], true
}

// next returns the next free slot without claiming it.
func (s *TemplateSet[T]) next() (*Template[T], error) {
	if s.loaded >= len(s.templates) {
		return nil, fmt.Errorf("%w: %d slots", ErrTemplateCapacity, len(s.templates))
	}
	return &s.templates[s.loaded], nil
}

// commit claims the slot returned by next.
func (s *TemplateSet[T]) commit(label int) {
	s.templates[s.loaded].Label = label
	s.loaded++
}
