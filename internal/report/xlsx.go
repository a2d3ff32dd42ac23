package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Breakdown sheet names.
const (
	SheetSummary   = "Summary"
	SheetRebars    = "Rebars"
	SheetPositions = "Positions"
)

// WriteXLSX writes s as a workbook with a summary sheet, one row per rebar
// and one row per bar position. Masses are written at full precision.
func WriteXLSX(w io.Writer, s Summary) error {
	if s.Result == nil {
		return fmt.Errorf("report: no result")
	}
	res := s.Result

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	summary := [][]any{
		{"Title", s.title()},
		{"Selection", s.Source},
		{"Generated", s.Generated.Format("2006-01-02 15:04")},
		{"Unit", s.Unit},
		{"Density (kg/m3)", s.Density},
		{"Arc model", s.ArcModel},
		{"Total mass (kg)", res.TotalMass},
		{"CoG X", res.Location.X},
		{"CoG Y", res.Location.Y},
		{"CoG Z", res.Location.Z},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	rebars := [][]any{{"id", "diameter", "bars", "mass_kg", "x", "y", "z"}}
	positions := [][]any{{"rebar_id", "position", "mass_kg", "x", "y", "z"}}
	for _, r := range res.Rebars {
		rebars = append(rebars, []any{r.ID, r.Diameter, len(r.Positions), r.Mass, r.Location.X, r.Location.Y, r.Location.Z})
		for _, p := range r.Positions {
			positions = append(positions, []any{r.ID, p.Index, p.Mass, p.Location.X, p.Location.Y, p.Location.Z})
		}
	}
	for _, sheet := range []struct {
		name string
		rows [][]any
	}{{SheetRebars, rebars}, {SheetPositions, positions}} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return err
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// SaveXLSX writes the breakdown workbook to path.
func SaveXLSX(path string, s Summary) error {
	return saveWith(path, func(w io.Writer) error { return WriteXLSX(w, s) })
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
