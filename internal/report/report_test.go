package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSummary() Summary {
	return Summary{
		Title:     "Slab S1",
		Source:    "slab.json",
		Unit:      "mm",
		Density:   7850,
		ArcModel:  "annular",
		Precision: 2,
		Generated: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
		Result: &mass.Result{
			Location:  geometry.Point{X: 500, Y: 100},
			TotalMass: 1.23456,
			Rebars: []mass.RebarResult{
				{
					ID: "G1", Diameter: 10,
					WeightedPoint: mass.WeightedPoint{Location: geometry.Point{X: 500, Y: 100}, Mass: 1.23456},
					Positions: []mass.PositionResult{
						{Index: 0, WeightedPoint: mass.WeightedPoint{Location: geometry.Point{X: 500}, Mass: 0.61728}},
						{Index: 2, WeightedPoint: mass.WeightedPoint{Location: geometry.Point{X: 500, Y: 200}, Mass: 0.61728}},
					},
				},
			},
		},
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleSummary()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_NoResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePDF(&buf, Summary{}))
	assert.Error(t, WriteXLSX(&buf, Summary{}))
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breakdown.xlsx")
	require.NoError(t, SaveXLSX(path, sampleSummary()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetRebars, SheetPositions}, f.GetSheetList())

	rows, err := f.GetRows(SheetPositions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "G1", rows[2][0])
	assert.Equal(t, "2", rows[2][1])

	total, err := f.GetCellValue(SheetSummary, "B7")
	require.NoError(t, err)
	assert.Equal(t, "1.23456", total)
}

func TestSavePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, SavePDF(path, sampleSummary()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSavePDF_FailureRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.Error(t, SavePDF(path, Summary{}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSummaryMassRounding(t *testing.T) {
	s := Summary{Precision: 2}
	assert.Equal(t, "0.62", s.mass(0.61654))
	s.Precision = 0
	assert.Equal(t, "1", s.mass(0.6))
}

func TestNewOutput(t *testing.T) {
	s := sampleSummary()
	out := NewOutput(s.Result, units.Millimeters, 2)

	assert.Equal(t, "mm", out.Unit)
	assert.Equal(t, 1.23, out.MassRounded)
	assert.Equal(t, 1.23456, out.TotalMass)
	require.Len(t, out.Rebars, 1)
	require.Len(t, out.Rebars[0].Positions, 2)
	assert.Equal(t, 2, out.Rebars[0].Positions[1].Index)
	assert.Equal(t, 200.0, out.Rebars[0].Positions[1].Centroid.Y)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, out))
	assert.Contains(t, buf.String(), `"mass_rounded": 1.23`)
	assert.NotContains(t, buf.String(), `"dropped"`)
}
