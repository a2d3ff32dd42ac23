package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/selection"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData(t *testing.T, plane Plane) CoGDiagramData {
	t.Helper()
	spec := selection.RebarSpec{
		ID: "G1", Diameter: 12, Positions: 3, Absent: []int{1},
		Spacing: geometry.Point{Y: 200},
		Segments: []selection.SegmentSpec{
			{Type: "line", Start: &geometry.Point{}, End: &geometry.Point{X: 1000}},
			{Type: "arc", Start: &geometry.Point{X: 1000}, Mid: &geometry.Point{X: 1050, Y: 50}, End: &geometry.Point{X: 1000, Y: 100}},
		},
	}
	bar, err := spec.Bar()
	require.NoError(t, err)

	rebars := []mass.Rebar{bar}
	res, err := mass.NewEngine(units.Millimeters, units.SteelDensity).Compute(rebars)
	require.NoError(t, err)

	data, err := FromResult("Slab S1", "mm", plane, rebars, res)
	require.NoError(t, err)
	return data
}

func TestFromResult(t *testing.T) {
	data := sampleData(t, PlaneXY)
	require.Len(t, data.Bars, 1)
	assert.Equal(t, "G1", data.Bars[0].ID)
	// positions 0 and 2 only
	require.Len(t, data.Bars[0].Paths, 2)
	// line endpoints plus arc chords
	assert.Len(t, data.Bars[0].Paths[0], 2+arcChords+1)
	assert.InDelta(t, 400.0, data.Bars[0].Paths[1][0].Y, 1e-9)
	assert.Greater(t, data.TotalMass, 0.0)
}

func TestPlaneProject(t *testing.T) {
	v := geometry.Point{X: 1, Y: 2, Z: 3}
	assert.Equal(t, Point{X: 1, Y: 2}, PlaneXY.Project(v))
	assert.Equal(t, Point{X: 1, Y: 3}, PlaneXZ.Project(v))
	assert.Equal(t, Point{X: 2, Y: 3}, PlaneYZ.Project(v))
}

func TestParsePlane(t *testing.T) {
	p, err := ParsePlane("")
	require.NoError(t, err)
	assert.Equal(t, PlaneXY, p)

	p, err = ParsePlane("XZ")
	require.NoError(t, err)
	assert.Equal(t, PlaneXZ, p)

	_, err = ParsePlane("zz")
	assert.Error(t, err)
}

func TestDrawASCIICoGDiagram(t *testing.T) {
	out := DrawASCIICoGDiagram(sampleData(t, PlaneXY))
	assert.Contains(t, out, "SLAB S1")
	assert.Contains(t, out, "X-Y PROJECTION (mm)")
	assert.Contains(t, out, "◆")
	assert.Contains(t, out, "·")
	assert.Contains(t, out, "Center of gravity at")
}

func TestDrawASCIICoGDiagram_SinglePoint(t *testing.T) {
	out := DrawASCIICoGDiagram(CoGDiagramData{Unit: "mm", Plane: PlaneXY})
	assert.Contains(t, out, "◆")
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("TOTAL MASS", []string{"m = 0.62 kg", "CoG = (500.0, 0.0, 0.0) mm"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), "box lines must align: %q", l)
	}
}

func TestExportCoGDiagram(t *testing.T) {
	dir := t.TempDir()
	data := sampleData(t, PlaneXZ)

	for _, name := range []string{"cog.png", "cog.svg", filepath.Join("nested", "cog.pdf")} {
		path := filepath.Join(dir, name)
		require.NoError(t, ExportCoGDiagram(data, path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	require.NoError(t, ExportCoGDiagram(data, filepath.Join(dir, "cog")))
	_, err := os.Stat(filepath.Join(dir, "cog.png"))
	assert.NoError(t, err)
}
