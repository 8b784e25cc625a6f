package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/input"
	"github.com/ayusman/unistroke/internal/store"
)

type manualClock struct {
	mu  sync.Mutex
	now int64
}

func (c *manualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
}

func newTestApp(t *testing.T, cfg Config) (*App, *manualClock) {
	t.Helper()
	clk := &manualClock{}
	cfg.Filter.Clock = clk.Now
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(a.Close)
	return a, clk
}

// drawLine feeds a horizontal stroke 10ms per point.
func drawLine(a *App, clk *manualClock) {
	for i := 0; i < 10; i++ {
		a.Update(float64(100+30*i), 200, false)
		clk.Advance(10)
	}
}

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func TestNew_Defaults(t *testing.T) {
	a, _ := newTestApp(t, Config{})

	want := catalog.Builtin().Names()
	got := a.Templates()
	if len(got) != len(want) {
		t.Fatalf("Templates() = %v, want %v", got, want)
	}
	if a.Index() != gesture.NoMatch || a.Name() != "" || a.Score() != 0 {
		t.Errorf("initial result = %+v, want no match", a.Result())
	}
	if !a.IsEnabled() {
		t.Error("app should start enabled")
	}
	if a.State() != gesture.Idle {
		t.Errorf("State() = %v, want idle", a.State())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{ResampledLength: 7}); !errors.Is(err, gesture.ErrInvalidConfig) {
		t.Errorf("New() with odd length error = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(Config{Catalog: &catalog.Catalog{}}); !errors.Is(err, catalog.ErrEmptyCatalog) {
		t.Errorf("New() with empty catalog error = %v, want ErrEmptyCatalog", err)
	}
}

func TestApp_HasGestureEnded(t *testing.T) {
	a, clk := newTestApp(t, Config{})

	if a.HasGestureEnded() {
		t.Fatal("HasGestureEnded() with no input should be false")
	}
	drawLine(a, clk)
	if a.HasGestureEnded() {
		t.Fatal("HasGestureEnded() before the idle timeout should be false")
	}

	clk.Advance(1000)
	if !a.HasGestureEnded() {
		t.Fatal("HasGestureEnded() after the idle timeout should be true")
	}
	if a.HasGestureEnded() {
		t.Error("HasGestureEnded() should report each stroke once")
	}

	if got := a.Name(); got != "line" {
		t.Errorf("Name() = %q, want line", got)
	}
	if got := a.Index(); got != 0 {
		t.Errorf("Index() = %d, want 0", got)
	}
	if got := a.Score(); got < 90 || got > 100 {
		t.Errorf("Score() = %d, want within [90, 100]", got)
	}
	res := a.Result()
	if len(res.Distances) != len(a.Templates()) {
		t.Errorf("len(Distances) = %d, want %d", len(res.Distances), len(a.Templates()))
	}
	if len(res.Points) != 10 {
		t.Errorf("len(Points) = %d, want 10", len(res.Points))
	}
}

func TestApp_UpdateGapEndsStroke(t *testing.T) {
	a, clk := newTestApp(t, Config{})
	var got collector
	a.OnResult(got.add)

	drawLine(a, clk)
	clk.Advance(1500)
	if a.Update(0, 0, false) {
		t.Error("Update() after a gap should report false")
	}

	results := got.all()
	if len(results) != 1 || results[0].Name != "line" {
		t.Fatalf("results = %+v, want one line", results)
	}
	if !a.HasGestureEnded() {
		t.Error("HasGestureEnded() should report the stroke ended by Update")
	}
	if a.State() != gesture.Active {
		t.Error("the gap point should start a new stroke")
	}
}

func TestApp_RecognizeForcesEnd(t *testing.T) {
	a, clk := newTestApp(t, Config{})
	var got collector
	a.OnResult(got.add)

	if res := a.Recognize(); res.Matched() {
		t.Errorf("Recognize() with no input = %+v, want no match", res)
	}

	drawLine(a, clk)
	res := a.Recognize()
	if res.Name != "line" {
		t.Errorf("Recognize().Name = %q, want line", res.Name)
	}
	if a.HasGestureEnded() {
		t.Error("a recognized stroke should not be reported again")
	}
	if again := a.Recognize(); again.Name != "line" || len(got.all()) != 1 {
		t.Errorf("second Recognize() = %+v with %d results, want same result and no new notification", again, len(got.all()))
	}
}

func TestApp_RelativeUpdates(t *testing.T) {
	a, clk := newTestApp(t, Config{})

	a.Update(500, 500, false)
	for i := 0; i < 9; i++ {
		clk.Advance(10)
		a.Update(30, 0, true)
	}
	res := a.Recognize()
	if res.Name != "line" {
		t.Errorf("Name = %q, want line", res.Name)
	}
	if last := res.Points[len(res.Points)-1]; last != [2]float64{770, 500} {
		t.Errorf("last point = %v, want [770 500]", last)
	}
}

func TestApp_SetEnabled(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	a.SetEnabled(false)
	if a.Update(1, 1, false) {
		t.Error("Update() while disabled should report false")
	}
	if a.State() != gesture.Idle {
		t.Error("disabled app should not start a stroke")
	}
}

func TestApp_RecognizeStroke(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	var got collector
	a.OnResult(got.add)

	if _, err := a.RecognizeStroke(nil); !errors.Is(err, ErrEmptyStroke) {
		t.Errorf("RecognizeStroke(nil) error = %v, want ErrEmptyStroke", err)
	}

	res, err := a.RecognizeStroke([][2]float64{{0, 0}, {50, 50}, {100, 0}, {50, -50}, {0, 0}})
	if err != nil {
		t.Fatalf("RecognizeStroke() error = %v", err)
	}
	if res.Name != "circle" || res.Score < 95 {
		t.Errorf("RecognizeStroke() = %s/%d, want circle with score >= 95", res.Name, res.Score)
	}
	if len(got.all()) != 1 {
		t.Error("listeners should be notified of posted strokes")
	}
	if a.Result().Matched() {
		t.Error("posted strokes should not replace the live result")
	}
}

func TestApp_AddTemplate(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	hook := [][2]float64{{0, 100}, {0, 0}, {60, 0}, {60, 30}}

	if err := a.AddTemplate("hook", hook); err != nil {
		t.Fatalf("AddTemplate() error = %v", err)
	}
	if err := a.AddTemplate("hook", hook); !errors.Is(err, ErrDuplicateTemplate) {
		t.Errorf("duplicate AddTemplate() error = %v, want ErrDuplicateTemplate", err)
	}
	if err := a.AddTemplate("empty", nil); err == nil {
		t.Error("AddTemplate() with no points should fail")
	}

	res, err := a.RecognizeStroke(hook)
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "hook" || res.Index != len(catalog.Builtin().Templates) {
		t.Errorf("RecognizeStroke() = %s/%d, want hook at the first spare slot", res.Name, res.Index)
	}
}

func TestApp_AddTemplateCapacity(t *testing.T) {
	a, _ := newTestApp(t, Config{SpareTemplates: 1})
	if err := a.AddTemplate("one", [][2]float64{{0, 0}, {1, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := a.AddTemplate("two", [][2]float64{{0, 0}, {1, 2}}); !errors.Is(err, gesture.ErrTemplateCapacity) {
		t.Errorf("AddTemplate() past capacity error = %v, want ErrTemplateCapacity", err)
	}
}

func TestApp_StoreIntegration(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, clk := newTestApp(t, Config{Store: s})
	drawLine(a, clk)
	a.Recognize()

	recs, err := s.Recognitions().Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].TemplateName != "line" || recs[0].Points != 10 {
		t.Fatalf("recognitions = %+v, want one line with 10 points", recs)
	}

	// Recorded templates live only as long as the App.
	if err := a.AddTemplate("hook", [][2]float64{{0, 100}, {0, 0}, {60, 0}}); err != nil {
		t.Fatal(err)
	}
	b, err := New(Config{Store: s})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, want := len(b.Templates()), len(catalog.Builtin().Templates); got != want {
		t.Errorf("len(Templates()) = %d, want %d", got, want)
	}
}

func TestApp_Run(t *testing.T) {
	a, _ := newTestApp(t, Config{})
	var got collector
	a.OnResult(got.add)

	var events []input.Event
	for i := 0; i < 10; i++ {
		events = append(events, input.Event{X: float64(30 * i), Y: 50})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Run(ctx, input.NewMockSource(events, 0)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	results := got.all()
	if len(results) != 1 || results[0].Name != "line" {
		t.Errorf("results = %+v, want one line", results)
	}
}

type failingSource struct{}

func (failingSource) Events(context.Context) (<-chan input.Event, error) {
	return nil, errors.New("device unplugged")
}

func TestApp_StartStop(t *testing.T) {
	a, _ := newTestApp(t, Config{})

	if err := a.Start(failingSource{}); err == nil {
		t.Error("Start() should report source errors")
	}
	src := input.NewMockSource([]input.Event{{X: 1, Y: 1}}, time.Hour)
	if err := a.Start(src); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := a.Start(src); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}
	a.Stop()
	a.Stop()
	if err := a.Start(src); err != nil {
		t.Errorf("Start() after Stop() error = %v", err)
	}
}
