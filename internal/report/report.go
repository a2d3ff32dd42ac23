// Package report writes mass and center-of-gravity results to PDF and XLSX
// documents.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/phpdave11/gofpdf"
)

// Summary is everything a report shows about one computation.
type Summary struct {
	Title     string
	Source    string  // file the selection was read from
	Unit      string  // working length unit
	Density   float64 // kg/m³
	ArcModel  string
	Precision int
	Generated time.Time
	Result    *mass.Result
}

func (s Summary) title() string {
	if s.Title == "" {
		return "Rebar Mass Report"
	}
	return s.Title
}

func (s Summary) mass(v float64) string {
	return fmt.Sprintf("%.*f", s.Precision, units.Round(v, s.Precision))
}

func (s Summary) point(x, y, z float64) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", x, y, z)
}

// WritePDF renders s as an A4 PDF report.
func WritePDF(w io.Writer, s Summary) error {
	if s.Result == nil {
		return fmt.Errorf("report: no result")
	}
	res := s.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, s.title())
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if s.Source != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Selection: %s", s.Source))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", s.Generated.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Length unit: %s    Steel density: %.0f kg/m3    Arc model: %s", s.Unit, s.Density, s.ArcModel))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Total mass: %s kg", s.mass(res.TotalMass)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Center of gravity: %s %s", s.point(res.Location.X, res.Location.Y, res.Location.Z), s.Unit))
	pdf.Ln(12)

	// Breakdown table
	cols := []struct {
		title string
		width float64
	}{
		{"Rebar", 30}, {"Dia.", 20}, {"Bars", 18}, {"Mass (kg)", 30}, {"Centroid (" + s.Unit + ")", 82},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range res.Rebars {
		cells := []string{
			r.ID,
			fmt.Sprintf("%g", r.Diameter),
			fmt.Sprintf("%d", len(r.Positions)),
			s.mass(r.Mass),
			s.point(r.Location.X, r.Location.Y, r.Location.Z),
		}
		for i, c := range cols {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// SavePDF writes the PDF report to path.
func SavePDF(path string, s Summary) error {
	return saveWith(path, func(w io.Writer) error { return WritePDF(w, s) })
}

// saveWith creates path and fills it with write. A failed write leaves no
// partial file behind.
func saveWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
