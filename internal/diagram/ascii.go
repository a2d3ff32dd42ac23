package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/geometry"
)

// Point represents a 2D coordinate on the drawing plane
type Point struct {
	X float64
	Y float64
}

// Plane selects the two model axes a drawing is projected onto.
type Plane string

const (
	PlaneXY Plane = "xy" // plan
	PlaneXZ Plane = "xz" // front elevation
	PlaneYZ Plane = "yz" // side elevation
)

// ParsePlane validates a plane name. Empty selects the plan view.
func ParsePlane(s string) (Plane, error) {
	switch Plane(strings.ToLower(s)) {
	case "", PlaneXY:
		return PlaneXY, nil
	case PlaneXZ:
		return PlaneXZ, nil
	case PlaneYZ:
		return PlaneYZ, nil
	}
	return "", fmt.Errorf("unknown plane %q (expected xy, xz or yz)", s)
}

// Project drops the axis normal to the plane.
func (p Plane) Project(v geometry.Point) Point {
	switch p {
	case PlaneXZ:
		return Point{X: v.X, Y: v.Z}
	case PlaneYZ:
		return Point{X: v.Y, Y: v.Z}
	}
	return Point{X: v.X, Y: v.Y}
}

// Axes returns the axis labels of the plane.
func (p Plane) Axes() (string, string) {
	switch p {
	case PlaneXZ:
		return "X", "Z"
	case PlaneYZ:
		return "Y", "Z"
	}
	return "X", "Y"
}

// Bar is one drawn rebar: its projected centerlines and its own centroid.
type Bar struct {
	ID       string
	Paths    [][]Point // one polyline per existing position
	Centroid Point
	Mass     float64
}

// CoGDiagramData holds data for drawing a selection and its center of gravity
type CoGDiagramData struct {
	Title     string
	Unit      string
	Plane     Plane
	Bars      []Bar
	CoG       Point
	TotalMass float64
}

// bounds returns the extent of every drawn point.
func (d CoGDiagramData) bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(p Point) {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	grow(d.CoG)
	for _, b := range d.Bars {
		grow(b.Centroid)
		for _, path := range b.Paths {
			for _, p := range path {
				grow(p)
			}
		}
	}
	return minX, maxX, minY, maxY
}

// DrawASCIICoGDiagram creates an ASCII projection of the selected bars with
// the center of gravity marked.
func DrawASCIICoGDiagram(data CoGDiagramData) string {
	var sb strings.Builder

	// Scale factors for ASCII drawing
	widthChars := 60
	heightChars := 20

	minX, maxX, minY, maxY := data.bounds()
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	grid := make([][]rune, heightChars+1)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", widthChars+1))
	}
	toCell := func(p Point) (int, int) {
		col := int(math.Round((p.X - minX) / spanX * float64(widthChars)))
		row := heightChars - int(math.Round((p.Y-minY)/spanY*float64(heightChars)))
		return row, col
	}
	plot := func(p Point, r rune) {
		row, col := toCell(p)
		if row >= 0 && row <= heightChars && col >= 0 && col <= widthChars {
			grid[row][col] = r
		}
	}

	// Centerlines, sampled along each chord
	for _, b := range data.Bars {
		for _, path := range b.Paths {
			for i := 0; i+1 < len(path); i++ {
				a, c := path[i], path[i+1]
				steps := 2 * (widthChars + heightChars)
				for s := 0; s <= steps; s++ {
					t := float64(s) / float64(steps)
					plot(Point{X: a.X + t*(c.X-a.X), Y: a.Y + t*(c.Y-a.Y)}, '·')
				}
			}
			if len(path) == 1 {
				plot(path[0], '·')
			}
		}
	}
	for _, b := range data.Bars {
		plot(b.Centroid, 'o')
	}
	plot(data.CoG, '◆')

	h, v := data.Plane.Axes()
	sb.WriteString("\n")
	if data.Title != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(data.Title)))
	}
	sb.WriteString(fmt.Sprintf("  %s-%s PROJECTION (%s)\n", h, v, data.Unit))
	sb.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("─", 24)))

	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", strings.Repeat("─", widthChars+1)))
	for _, row := range grid {
		sb.WriteString(fmt.Sprintf("  │%s│\n", string(row)))
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", strings.Repeat("─", widthChars+1)))
	sb.WriteString(fmt.Sprintf("  %s: %.1f … %.1f   %s: %.1f … %.1f\n", h, minX, maxX, v, minY, maxY))

	// Legend
	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ··· = Bar centerline\n")
	sb.WriteString("  o   = Centroid of a rebar element\n")
	sb.WriteString(fmt.Sprintf("  ◆   = Center of gravity at (%.1f, %.1f) %s\n", data.CoG.X, data.CoG.Y, data.Unit))

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
