package main

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/gesture"
)

// plotCatalog writes templates.png with every entry as drawn and
// normalized.png with their canonical forms overlaid.
func plotCatalog(cat *catalog.Catalog, r *gesture.ShapeRecognizer[float64], dir string) ([]string, error) {
	norm, err := catalog.Normalized(cat, r)
	if err != nil {
		return nil, err
	}

	raw := newPlot("Templates")
	canonical := newPlot(fmt.Sprintf("Normalized (%d points)", r.NumPoints()))
	for i := range cat.Templates {
		if err := addStroke(raw, cat.Templates[i].Name, i, cat.Templates[i].Points); err != nil {
			return nil, err
		}
		if err := addStroke(canonical, norm.Templates[i].Name, i, norm.Templates[i].Points); err != nil {
			return nil, err
		}
	}

	files := []string{filepath.Join(dir, "templates.png"), filepath.Join(dir, "normalized.png")}
	if err := raw.Save(8*vg.Inch, 8*vg.Inch, files[0]); err != nil {
		return nil, err
	}
	if err := canonical.Save(8*vg.Inch, 8*vg.Inch, files[1]); err != nil {
		return nil, err
	}
	return files, nil
}

// plotStroke writes a two line plot of a stroke and its normalized form.
func plotStroke(title string, pts []gesture.Point[float64], r *gesture.ShapeRecognizer[float64], file string) error {
	norm := make([]gesture.Point[float64], r.NumPoints())
	if err := r.Normalize(pts, norm); err != nil {
		return err
	}

	p := newPlot(title)
	if err := addStroke(p, "drawn", 0, catalog.Coords(pts)); err != nil {
		return err
	}
	if err := addStroke(p, "normalized", 1, catalog.Coords(norm)); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, file)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// addStroke draws coords as a line with a marker on the first point.
func addStroke(p *plot.Plot, name string, i int, coords []catalog.Coord) error {
	xys := make(plotter.XYs, len(coords))
	for j, c := range coords {
		// Screen y grows downward.
		xys[j] = plotter.XY{X: c[0], Y: -c[1]}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(i)
	line.Width = vg.Points(1.5)

	start, err := plotter.NewScatter(xys[:1])
	if err != nil {
		return err
	}
	start.GlyphStyle.Color = line.Color
	start.GlyphStyle.Radius = vg.Points(3)

	p.Add(line, start)
	p.Legend.Add(name, line)
	return nil
}
