package capture

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ayusman/unistroke/internal/input"
	"gocv.io/x/gocv"
)

// spotFrame returns a black frame with a white disc at center.
func spotFrame(center image.Point) gocv.Mat {
	m := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	gocv.Circle(&m, center, 6, color.RGBA{R: 255, G: 255, B: 255}, -1)
	return m
}

func near(a, b image.Point, tol int) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx >= -tol && dx <= tol && dy >= -tol && dy <= tol
}

func TestPointerTracker_FindsSpot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}
	frame := spotFrame(image.Pt(100, 40))
	defer frame.Close()

	tr := NewPointerTracker(TrackerConfig{BlurSize: 5, MinBrightness: 200})
	defer tr.Close()

	p, ok := tr.Track(&frame)
	if !ok {
		t.Fatal("Track() found no spot")
	}
	if !near(p, image.Pt(100, 40), 2) {
		t.Errorf("Track() = %v, want near (100,40)", p)
	}
}

func TestPointerTracker_Mirror(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}
	frame := spotFrame(image.Pt(30, 60))
	defer frame.Close()

	tr := NewPointerTracker(TrackerConfig{BlurSize: 4, MinBrightness: 200, Mirror: true})
	defer tr.Close()

	p, ok := tr.Track(&frame)
	if !ok {
		t.Fatal("Track() found no spot")
	}
	if !near(p, image.Pt(160-1-30, 60), 2) {
		t.Errorf("mirrored Track() = %v, want near (129,60)", p)
	}
}

func TestPointerTracker_DarkFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}
	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	tr := NewPointerTracker(DefaultTrackerConfig())
	defer tr.Close()

	if _, ok := tr.Track(&frame); ok {
		t.Error("Track() on a dark frame should find nothing")
	}
	if _, ok := tr.Track(nil); ok {
		t.Error("Track(nil) should find nothing")
	}
}

func TestCameraSource_Events(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}
	f1 := spotFrame(image.Pt(20, 20))
	defer f1.Close()
	dark := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer dark.Close()
	f2 := spotFrame(image.Pt(80, 50))
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &dark, &f2}, false)
	src := NewCameraSource(cam, NewPointerTracker(TrackerConfig{BlurSize: 5, MinBrightness: 200}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := src.Events(ctx)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	var got []input.Event
	for ev := range ch {
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(got), got)
	}
	if !near(image.Pt(int(got[1].X), int(got[1].Y)), image.Pt(80, 50), 2) {
		t.Errorf("second event = %+v, want near (80,50)", got[1])
	}
	if cam.IsOpen() {
		t.Error("camera should be closed when the source ends")
	}
}
