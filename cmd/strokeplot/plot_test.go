package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/store"
)

func newRecognizer(t *testing.T, n int) *gesture.ShapeRecognizer[float64] {
	t.Helper()
	r, err := gesture.NewShapeRecognizer[float64](gesture.DefaultRecognizerConfig(64, n))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestPlotCatalog(t *testing.T) {
	cat := catalog.Builtin()
	dir := t.TempDir()

	files, err := plotCatalog(cat, newRecognizer(t, len(cat.Templates)), dir)
	if err != nil {
		t.Fatalf("plotCatalog() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("plotCatalog() wrote %d files, want 2", len(files))
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			t.Fatalf("missing %s: %v", f, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", f)
		}
	}
}

func TestPlotRecorded(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	rec := &store.Recognition{TemplateName: "check", Score: 91}
	stroke := [][2]float64{{0, 50}, {20, 80}, {40, 60}, {80, 0}}
	if err := st.Recognitions().Create(rec, stroke); err != nil {
		t.Fatal(err)
	}
	st.Close()

	dir := t.TempDir()
	file, err := plotRecorded(dbPath, rec.ID, newRecognizer(t, 1), dir)
	if err != nil {
		t.Fatalf("plotRecorded() error = %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("missing %s: %v", file, err)
	}

	if _, err := plotRecorded(dbPath, "missing", newRecognizer(t, 1), dir); err == nil {
		t.Error("plotRecorded() with unknown ID should fail")
	}
}
