package gesture

import (
	"fmt"
	"math"
)

// NoMatch is the MatchResult index when no template was compared.
const NoMatch = -1

// RecognizerConfig holds ShapeRecognizer settings.
type RecognizerConfig struct {
	// ResampledLength is the number of coordinate values every stroke is
	// resampled to, two per point. It must be even and at least 4.
	ResampledLength int
	// TemplateCapacity is the number of template slots.
	TemplateCapacity int
	// SquareSize is the side of the canonical bounding square.
	SquareSize float64
	// AngleRange bounds the rotation search to +-AngleRange degrees.
	AngleRange float64
	// AnglePrecision is the bracket width, in degrees, that ends the search.
	AnglePrecision float64
	// Tracer receives per-template distances when set.
	Tracer Tracer
}

// DefaultRecognizerConfig returns the standard settings for the given
// resampled length and template capacity.
func DefaultRecognizerConfig(resampledLength, templateCapacity int) RecognizerConfig {
	return RecognizerConfig{
		ResampledLength:  resampledLength,
		TemplateCapacity: templateCapacity,
		SquareSize:       4096,
		AngleRange:       45,
		AnglePrecision:   2,
	}
}

// Validate checks the configuration.
func (c RecognizerConfig) Validate() error {
	switch {
	case c.ResampledLength < 4 || c.ResampledLength%2 != 0:
		return fmt.Errorf("%w: resampled length %d must be even and >= 4", ErrInvalidConfig, c.ResampledLength)
	case c.TemplateCapacity <= 0:
		return fmt.Errorf("%w: template capacity %d", ErrInvalidConfig, c.TemplateCapacity)
	case c.SquareSize <= 0:
		return fmt.Errorf("%w: square size %v", ErrInvalidConfig, c.SquareSize)
	case c.AngleRange < 0:
		return fmt.Errorf("%w: angle range %v", ErrInvalidConfig, c.AngleRange)
	case c.AnglePrecision <= 0:
		return fmt.Errorf("%w: angle precision %v", ErrInvalidConfig, c.AnglePrecision)
	}
	return nil
}

// MatchResult is the outcome of one recognition.
type MatchResult struct {
	// Index is the position of the best template in load order, or NoMatch.
	Index int
	// Label is the best template's label. It is meaningless for NoMatch.
	Label int
	// Score is 1 for a perfect match and falls linearly with distance. It
	// is not clamped and goes negative for very poor matches.
	Score float64
	// Distance is the mean point distance to the best template.
	Distance float64
	// Distances holds the distance to every loaded template in load order.
	// It is reused by the next Recognize call.
	Distances []float64
}

// Matched reports whether a template was selected.
func (m MatchResult) Matched() bool {
	return m.Index != NoMatch
}

// ShapeRecognizer normalizes strokes and matches them against a fixed set
// of templates. It is not safe for concurrent use.
type ShapeRecognizer[T Number] struct {
	cfg          RecognizerConfig
	templates    *TemplateSet[T]
	search       angleSearch
	halfDiagonal float64

	query     []Point[T]
	distances []float64
}

// NewShapeRecognizer allocates a recognizer and its template slots.
func NewShapeRecognizer[T Number](cfg RecognizerConfig) (*ShapeRecognizer[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Canonical points span up to SquareSize from the origin, and up to
	// SquareSize*sqrt2 once rotated.
	if extent := cfg.SquareSize * math.Sqrt2; extent > maxMagnitude[T]() {
		var zero T
		return nil, fmt.Errorf("%w: square size %v overflows %T coordinates", ErrInvalidConfig, cfg.SquareSize, zero)
	}
	n := cfg.ResampledLength / 2
	templates, err := NewTemplateSet[T](cfg.TemplateCapacity, n)
	if err != nil {
		return nil, err
	}
	return &ShapeRecognizer[T]{
		cfg:       cfg,
		templates: templates,
		search: angleSearch{
			rangeRad:     cfg.AngleRange * math.Pi / 180,
			precisionRad: cfg.AnglePrecision * math.Pi / 180,
		},
		halfDiagonal: 0.5 * math.Hypot(cfg.SquareSize, cfg.SquareSize),
		query:        make([]Point[T], n),
		distances:    make([]float64, cfg.TemplateCapacity),
	}, nil
}

// Config returns the recognizer settings.
func (r *ShapeRecognizer[T]) Config() RecognizerConfig {
	return r.cfg
}

// NumPoints returns the number of points strokes are resampled to.
func (r *ShapeRecognizer[T]) NumPoints() int {
	return len(r.query)
}

// Templates returns the loaded templates.
func (r *ShapeRecognizer[T]) Templates() *TemplateSet[T] {
	return r.templates
}

// Evaluations returns the number of distance evaluations made per template.
func (r *ShapeRecognizer[T]) Evaluations() int {
	return r.search.evaluations()
}

// Normalize writes the canonical form of src into dst, which must hold
// NumPoints points.
func (r *ShapeRecognizer[T]) Normalize(src, dst []Point[T]) error {
	if len(src) == 0 {
		return fmt.Errorf("%w: empty stroke", ErrTemplateLength)
	}
	if len(dst) != len(r.query) {
		return fmt.Errorf("%w: destination holds %d points, want %d", ErrTemplateLength, len(dst), len(r.query))
	}
	normalize(src, dst, r.cfg.SquareSize)
	return nil
}

// LoadTemplate normalizes points and stores them under label.
func (r *ShapeRecognizer[T]) LoadTemplate(points []Point[T], label int) error {
	t, err := r.templates.next()
	if err != nil {
		return err
	}
	if err := r.Normalize(points, t.points); err != nil {
		return err
	}
	r.templates.commit(label)
	return nil
}

// LoadTemplateNormalized stores points as-is under label. The caller
// guarantees they are already in canonical form.
func (r *ShapeRecognizer[T]) LoadTemplateNormalized(points []Point[T], label int) error {
	t, err := r.templates.next()
	if err != nil {
		return err
	}
	if len(points) != len(t.points) {
		return fmt.Errorf("%w: %d points, want %d", ErrTemplateLength, len(points), len(t.points))
	}
	copy(t.points, points)
	r.templates.commit(label)
	return nil
}

// Recognize normalizes points and returns the closest template. Equal
// distances resolve to the template loaded first. An empty stroke, a stroke
// with a non-finite point or an empty template set yields NoMatch.
func (r *ShapeRecognizer[T]) Recognize(points []Point[T]) MatchResult {
	res := MatchResult{Index: NoMatch, Distances: r.distances[:0]}
	if len(points) == 0 || r.templates.Len() == 0 {
		return res
	}
	for _, p := range points {
		if !p.Finite() {
			return res
		}
	}
	normalize(points, r.query, r.cfg.SquareSize)

	best := math.Inf(1)
	for i := 0; i < r.templates.Len(); i++ {
		t := &r.templates.templates[i]
		d := bestDistance(r.search, r.query, t.points)
		r.distances[i] = d
		if r.cfg.Tracer != nil {
			r.cfg.Tracer("template", "index", i, "label", t.Label, "distance", d)
		}
		if d < best {
			best = d
			res.Index = i
			res.Label = t.Label
		}
	}
	res.Distance = best
	res.Score = r.Score(best)
	res.Distances = r.distances[:r.templates.Len()]
	return res
}

// RecognizeBuffer recognizes the contents of buf, copying them into
// scratch first. scratch must hold buf.Cap() points.
func (r *ShapeRecognizer[T]) RecognizeBuffer(buf *SampleBuffer[T], scratch []Point[T]) MatchResult {
	n := buf.CopyTo(scratch)
	return r.Recognize(scratch[:n])
}

// Score converts a distance into a score.
func (r *ShapeRecognizer[T]) Score(distance float64) float64 {
	return 1 - distance/r.halfDiagonal
}
