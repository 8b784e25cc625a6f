// Package app hosts the stroke recognizer. It feeds input points through a
// sampling filter, recognizes finished strokes and hands the results to
// listeners such as the store, plugins and the UI.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/plugin"
	"github.com/ayusman/unistroke/internal/store"
)

// Defaults used for zero Config fields.
const (
	DefaultResampledLength = 64
	DefaultSpareTemplates  = 16
	DefaultPollInterval    = 50 * time.Millisecond
	DefaultPluginTimeout   = 5 * time.Second
)

var (
	// ErrEmptyStroke is returned when a stroke with no points is submitted.
	ErrEmptyStroke = errors.New("stroke has no points")
	// ErrDuplicateTemplate is returned when a template name is already loaded.
	ErrDuplicateTemplate = errors.New("template name already in use")
)

// Config holds application settings. Zero values take defaults.
type Config struct {
	// ResampledLength is the number of coordinate values strokes are
	// resampled to.
	ResampledLength int
	// Filter overrides the sampling filter settings field by field.
	Filter gesture.FilterConfig
	// Recognizer overrides SquareSize, AngleRange, AnglePrecision and
	// Tracer. Its length and capacity are derived.
	Recognizer gesture.RecognizerConfig
	// Catalog defaults to catalog.Builtin().
	Catalog *catalog.Catalog
	// SpareTemplates is the number of slots kept for templates recorded at
	// runtime.
	SpareTemplates int
	// MinScore is the score below which plugin actions are not run.
	MinScore int

	Store         *store.Store
	PluginDir     string
	PluginTimeout time.Duration
	PollInterval  time.Duration
	// Debug logs filter and recognizer trace events.
	Debug bool
}

// Result is the outcome of recognizing one stroke.
type Result struct {
	Index     int          `json:"index"`
	Name      string       `json:"name"`
	Score     int          `json:"score"`
	Distance  float64      `json:"distance"`
	Distances []float64    `json:"distances"`
	Points    [][2]float64 `json:"points"`
	Overflow  int          `json:"overflow"`
	Time      time.Time    `json:"time"`
}

// Matched reports whether a template was selected.
func (r Result) Matched() bool {
	return r.Index != gesture.NoMatch
}

// App owns one sampling filter and one recognizer.
type App struct {
	cfg        Config
	mu         sync.Mutex
	filter     *gesture.SamplingFilter[float64]
	recognizer *gesture.ShapeRecognizer[float64]
	names      []string
	scratch    []gesture.Point[float64]
	last       Result
	ended      bool
	pending    []Result
	enabled    bool

	lmu       sync.RWMutex
	listeners []func(Result)

	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	actions    sync.WaitGroup

	runMu  sync.Mutex
	cancel func()
	done   chan struct{}
}

// New builds an App, loads the catalog and discovers plugins.
func New(cfg Config) (*App, error) {
	if cfg.ResampledLength == 0 {
		cfg.ResampledLength = DefaultResampledLength
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Builtin()
	}
	if cfg.SpareTemplates <= 0 {
		cfg.SpareTemplates = DefaultSpareTemplates
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.PluginTimeout <= 0 {
		cfg.PluginTimeout = DefaultPluginTimeout
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return nil, err
	}

	fcfg := filterConfig(cfg)
	rcfg := recognizerConfig(cfg)
	filter, err := gesture.NewSamplingFilter[float64](fcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter: %w", err)
	}
	recognizer, err := gesture.NewShapeRecognizer[float64](rcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}
	if err := catalog.LoadInto(cfg.Catalog, recognizer); err != nil {
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		filter:     filter,
		recognizer: recognizer,
		names:      cfg.Catalog.Names(),
		scratch:    make([]gesture.Point[float64], fcfg.Capacity),
		last:       Result{Index: gesture.NoMatch},
		enabled:    true,
		pluginMgr:  plugin.NewManager(cfg.PluginDir),
		pluginExec: plugin.NewExecutor(cfg.PluginTimeout),
	}
	filter.OnGestureEnd(a.onGestureEnd)

	if cfg.Store != nil {
		a.OnResult(a.logResult)
	}
	if cfg.PluginDir != "" {
		if err := a.pluginMgr.Discover(); err != nil {
			log.Printf("Plugin discovery failed: %v", err)
		}
		if cfg.Store != nil {
			a.OnResult(a.runActions)
		}
	}

	log.Printf("Loaded %d templates", len(a.names))
	return a, nil
}

func filterConfig(cfg Config) gesture.FilterConfig {
	f := gesture.DefaultFilterConfig(cfg.ResampledLength)
	o := cfg.Filter
	if o.Capacity > 0 {
		f.Capacity = o.Capacity
	}
	if o.IdleTimeoutMs > 0 {
		f.IdleTimeoutMs = o.IdleTimeoutMs
	}
	f.MinPointIntervalMs = o.MinPointIntervalMs
	f.MinDistance = o.MinDistance
	f.Clock = o.Clock
	f.Tracer = o.Tracer
	if f.Tracer == nil && cfg.Debug {
		f.Tracer = logTracer("filter")
	}
	return f
}

func recognizerConfig(cfg Config) gesture.RecognizerConfig {
	capacity := len(cfg.Catalog.Templates) + cfg.SpareTemplates
	r := gesture.DefaultRecognizerConfig(cfg.ResampledLength, capacity)
	o := cfg.Recognizer
	if o.SquareSize > 0 {
		r.SquareSize = o.SquareSize
	}
	if o.AngleRange > 0 {
		r.AngleRange = o.AngleRange
	}
	if o.AnglePrecision > 0 {
		r.AnglePrecision = o.AnglePrecision
	}
	r.Tracer = o.Tracer
	if r.Tracer == nil && cfg.Debug {
		r.Tracer = logTracer("recognizer")
	}
	return r
}

func logTracer(prefix string) gesture.Tracer {
	return func(event string, kv ...any) {
		log.Printf("%s: %s", prefix, gesture.FormatTrace(event, kv...))
	}
}

// loadTemplate must be called with a.mu held or before the App is shared.
func (a *App) loadTemplate(name string, points [][2]float64) error {
	for _, n := range a.names {
		if n == name {
			return fmt.Errorf("%w: %s", ErrDuplicateTemplate, name)
		}
	}
	if len(points) == 0 {
		return ErrEmptyStroke
	}
	if err := a.recognizer.LoadTemplate(toPoints(points), len(a.names)); err != nil {
		return err
	}
	a.names = append(a.names, name)
	return nil
}

// onGestureEnd runs inside the filter with a.mu held.
func (a *App) onGestureEnd(buf *gesture.SampleBuffer[float64]) {
	m := a.recognizer.RecognizeBuffer(buf, a.scratch)
	res := a.result(m, a.scratch[:buf.Len()], buf.Overflow())
	a.last = res
	a.ended = true
	a.pending = append(a.pending, res)
}

func (a *App) result(m gesture.MatchResult, pts []gesture.Point[float64], overflow int) Result {
	res := Result{
		Index:     m.Index,
		Score:     int(m.Score * 100),
		Distance:  m.Distance,
		Distances: append([]float64(nil), m.Distances...),
		Points:    fromPoints(pts),
		Overflow:  overflow,
		Time:      time.Now(),
	}
	if m.Matched() {
		res.Name = a.names[m.Index]
	}
	return res
}

func (a *App) takePending() []Result {
	p := a.pending
	a.pending = nil
	return p
}

// Update submits one input point. With relative set, x and y are deltas.
// It reports whether the point was added to the stroke.
func (a *App) Update(x, y float64, relative bool) bool {
	a.mu.Lock()
	if !a.enabled {
		a.mu.Unlock()
		return false
	}
	ok := a.filter.Submit(gesture.Pt(x, y), relative)
	pending := a.takePending()
	a.mu.Unlock()

	a.notify(pending)
	return ok
}

// HasGestureEnded checks the idle timeout and reports whether a stroke has
// ended since the last call. The ended stroke has been recognized and its
// result is available from Result.
func (a *App) HasGestureEnded() bool {
	a.mu.Lock()
	a.filter.Poll()
	ended := a.ended
	a.ended = false
	pending := a.takePending()
	a.mu.Unlock()

	a.notify(pending)
	return ended
}

// Recognize ends the stroke in progress and recognizes it. With no stroke
// in progress it returns the latest result.
func (a *App) Recognize() Result {
	a.mu.Lock()
	a.filter.End()
	a.ended = false
	res := a.last
	pending := a.takePending()
	a.mu.Unlock()

	a.notify(pending)
	return res
}

// RecognizeStroke recognizes a complete stroke without touching the live
// filter. Listeners are notified of the result.
func (a *App) RecognizeStroke(points [][2]float64) (Result, error) {
	if len(points) == 0 {
		return Result{}, ErrEmptyStroke
	}
	pts := toPoints(points)

	a.mu.Lock()
	res := a.result(a.recognizer.Recognize(pts), pts, 0)
	a.mu.Unlock()

	a.notify([]Result{res})
	return res, nil
}

// AddTemplate normalizes points and loads them as a new named template in
// one of the spare slots. Added templates are not saved.
func (a *App) AddTemplate(name string, points [][2]float64) error {
	if name == "" {
		return errors.New("template name is required")
	}
	a.mu.Lock()
	err := a.loadTemplate(name, points)
	a.mu.Unlock()
	if err != nil {
		return err
	}
	log.Printf("Added template %s", name)
	return nil
}

// Result returns the latest recognition result.
func (a *App) Result() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Index returns the template index of the latest result, or -1.
func (a *App) Index() int {
	return a.Result().Index
}

// Score returns the latest score as a whole percentage.
func (a *App) Score() int {
	return a.Result().Score
}

// Name returns the template name of the latest result, or "".
func (a *App) Name() string {
	return a.Result().Name
}

// Templates returns the loaded template names in index order.
func (a *App) Templates() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.names...)
}

// State returns the filter state.
func (a *App) State() gesture.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter.State()
}

// SetEnabled enables or disables input. While disabled, Update ignores
// points.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether input is accepted.
func (a *App) IsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// OnResult registers fn to receive every result. Listeners run on the
// goroutine that produced the result, in registration order.
func (a *App) OnResult(fn func(Result)) {
	a.lmu.Lock()
	defer a.lmu.Unlock()
	a.listeners = append(a.listeners, fn)
}

func (a *App) notify(results []Result) {
	if len(results) == 0 {
		return
	}
	a.lmu.RLock()
	listeners := append([]func(Result)(nil), a.listeners...)
	a.lmu.RUnlock()

	for _, res := range results {
		if res.Matched() {
			log.Printf("Stroke recognized: %s (score: %d, points: %d)", res.Name, res.Score, len(res.Points))
		} else {
			log.Printf("Stroke not recognized (points: %d)", len(res.Points))
		}
		for _, fn := range listeners {
			fn(res)
		}
	}
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Store returns the configured store, or nil.
func (a *App) Store() *store.Store {
	return a.cfg.Store
}

func toPoints(coords [][2]float64) []gesture.Point[float64] {
	pts := make([]gesture.Point[float64], len(coords))
	for i, c := range coords {
		pts[i] = gesture.Pt(c[0], c[1])
	}
	return pts
}

func fromPoints(pts []gesture.Point[float64]) [][2]float64 {
	coords := make([][2]float64, len(pts))
	for i, p := range pts {
		coords[i] = [2]float64{p.X, p.Y}
	}
	return coords
}
