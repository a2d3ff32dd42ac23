package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	barColor      = color.RGBA{R: 139, G: 69, B: 19, A: 255}
	centroidColor = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	cogColor      = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ExportCoGDiagram exports the projected bars and center of gravity to an
// image file. The format follows the extension (.png, .svg, .pdf); any
// other name gets a .png suffix.
func ExportCoGDiagram(data CoGDiagramData, filename string) error {
	p := plot.New()
	p.Title.Text = "Rebar Center of Gravity"
	if data.Title != "" {
		p.Title.Text = data.Title
	}
	h, v := data.Plane.Axes()
	p.X.Label.Text = fmt.Sprintf("%s (%s)", h, data.Unit)
	p.Y.Label.Text = fmt.Sprintf("%s (%s)", v, data.Unit)

	// Draw bar centerlines
	for _, b := range data.Bars {
		for _, path := range b.Paths {
			if len(path) < 2 {
				continue
			}
			pts := make(plotter.XYs, len(path))
			for i, pt := range path {
				pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			line.LineStyle.Width = vg.Points(1.5)
			line.LineStyle.Color = barColor
			p.Add(line)
		}
	}

	// Per-rebar centroids
	if len(data.Bars) > 0 {
		pts := make(plotter.XYs, len(data.Bars))
		for i, b := range data.Bars {
			pts[i] = plotter.XY{X: b.Centroid.X, Y: b.Centroid.Y}
		}
		centroids, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		centroids.GlyphStyle.Color = centroidColor
		centroids.GlyphStyle.Radius = vg.Points(3)
		centroids.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(centroids)
	}

	// Center of gravity
	cog, err := plotter.NewScatter(plotter.XYs{{X: data.CoG.X, Y: data.CoG.Y}})
	if err != nil {
		return err
	}
	cog.GlyphStyle.Color = cogColor
	cog.GlyphStyle.Radius = vg.Points(6)
	cog.GlyphStyle.Shape = draw.CrossGlyph{}
	p.Add(cog)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: data.CoG.X, Y: data.CoG.Y}},
		Labels: []string{fmt.Sprintf("  CoG m=%.2f kg", data.TotalMass)},
	})
	if err != nil {
		return err
	}
	p.Add(label)

	width := 8 * vg.Inch
	height := 6 * vg.Inch

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
