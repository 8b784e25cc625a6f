// Command strokeplot renders template catalogs and recorded strokes to PNG,
// both as drawn and in the normalized form the recognizer compares.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/store"
)

func main() {
	templates := flag.String("templates", "", "template catalog file (default: built-in set)")
	out := flag.String("out", "plots", "output directory")
	length := flag.Int("n", 64, "resampled length")
	dbPath := flag.String("db", "", "database to read a recorded stroke from")
	id := flag.String("id", "", "recognition ID to plot (requires -db)")
	flag.Parse()

	cat := catalog.Builtin()
	if *templates != "" {
		var err error
		if cat, err = catalog.Load(*templates); err != nil {
			log.Fatalf("Failed to load templates: %v", err)
		}
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	r, err := gesture.NewShapeRecognizer[float64](gesture.DefaultRecognizerConfig(*length, len(cat.Templates)))
	if err != nil {
		log.Fatalf("Invalid recognizer settings: %v", err)
	}

	files, err := plotCatalog(cat, r, *out)
	if err != nil {
		log.Fatal(err)
	}

	if *id != "" {
		if *dbPath == "" {
			log.Fatal("-id requires -db")
		}
		f, err := plotRecorded(*dbPath, *id, r, *out)
		if err != nil {
			log.Fatal(err)
		}
		files = append(files, f)
	}

	for _, f := range files {
		fmt.Println(f)
	}
}

func plotRecorded(dbPath, id string, r *gesture.ShapeRecognizer[float64], dir string) (string, error) {
	st, err := store.New(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	rec, err := st.Recognitions().GetByID(id)
	if err != nil {
		return "", fmt.Errorf("recognition %s: %w", id, err)
	}
	stroke, err := st.Recognitions().Stroke(id)
	if err != nil {
		return "", err
	}

	title := "unrecognized"
	if rec.TemplateName != "" {
		title = fmt.Sprintf("%s (%d%%)", rec.TemplateName, rec.Score)
	}
	file := filepath.Join(dir, "stroke_"+id+".png")
	return file, plotStroke(title, catalog.Points[float64](toCoords(stroke)), r, file)
}

func toCoords(points [][2]float64) []catalog.Coord {
	coords := make([]catalog.Coord, len(points))
	for i, p := range points {
		coords[i] = p
	}
	return coords
}
