package selection

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names for bar schedules.
const (
	SheetInfo     = "Info"
	SheetRebars   = "Rebars"
	SheetSegments = "Segments"
)

// decodeXLSX reads a bar schedule workbook.
//
// Rebars: id, diameter, positions, absent, spacing_x, spacing_y, spacing_z, category
// Segments: rebar_id, position, type, x1, y1, z1, x2, y2, z2, x3, y3, z3
// Info (optional): key/value rows for name, description and unit
//
// A segment row with a blank position belongs to the shared shape; rows
// with a position build a per-position (variable-length) centerline.
func decodeXLSX(r io.Reader) (*Selection, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sel := &Selection{}
	if idx, _ := f.GetSheetIndex(SheetInfo); idx >= 0 {
		rows, err := f.GetRows(SheetInfo)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(row[0])) {
			case "name":
				sel.Name = row[1]
			case "description":
				sel.Description = row[1]
			case "unit":
				sel.Unit = strings.TrimSpace(row[1])
			}
		}
	}

	rebarRows, err := readTable(f, SheetRebars)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(rebarRows))
	for i, row := range rebarRows {
		spec, err := parseRebarRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SheetRebars, i+2, err)
		}
		if _, dup := byID[spec.ID]; dup {
			return nil, fmt.Errorf("%s row %d: duplicate rebar id %q", SheetRebars, i+2, spec.ID)
		}
		byID[spec.ID] = len(sel.Rebars)
		sel.Rebars = append(sel.Rebars, spec)
	}

	segRows, err := readTable(f, SheetSegments)
	if err != nil {
		return nil, err
	}
	for i, row := range segRows {
		id := row.str("rebar_id")
		idx, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s row %d: unknown rebar id %q", SheetSegments, i+2, id)
		}
		seg, err := parseSegmentRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SheetSegments, i+2, err)
		}

		spec := &sel.Rebars[idx]
		if row.str("position") == "" {
			spec.Segments = append(spec.Segments, seg)
			continue
		}
		pos, err := row.integer("position")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", SheetSegments, i+2, err)
		}
		n := spec.PositionCount()
		if pos < 0 || pos >= n {
			return nil, fmt.Errorf("%s row %d: position %d out of range [0, %d)", SheetSegments, i+2, pos, n)
		}
		if spec.Variable == nil {
			spec.Variable = make([][]SegmentSpec, n)
		}
		spec.Variable[pos] = append(spec.Variable[pos], seg)
	}

	return sel, nil
}

// tableRow maps lower-case header names to cell values.
type tableRow map[string]string

func (r tableRow) str(col string) string {
	return strings.TrimSpace(r[col])
}

func (r tableRow) number(col string) (float64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", col, s)
	}
	return v, nil
}

func (r tableRow) integer(col string) (int, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an integer", col, s)
	}
	return v, nil
}

func (r tableRow) point(x, y, z string) (*geometry.Point, error) {
	if r.str(x) == "" && r.str(y) == "" && r.str(z) == "" {
		return nil, nil
	}
	var p geometry.Point
	var err error
	if p.X, err = r.number(x); err != nil {
		return nil, err
	}
	if p.Y, err = r.number(y); err != nil {
		return nil, err
	}
	if p.Z, err = r.number(z); err != nil {
		return nil, err
	}
	return &p, nil
}

// readTable returns the data rows of sheet keyed by the header row.
func readTable(f *excelize.File, sheet string) ([]tableRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("sheet %s: missing header row", sheet)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []tableRow
	for _, row := range rows[1:] {
		tr := make(tableRow, len(header))
		empty := true
		for i, cell := range row {
			if i < len(header) && header[i] != "" {
				tr[header[i]] = cell
				if strings.TrimSpace(cell) != "" {
					empty = false
				}
			}
		}
		if !empty {
			out = append(out, tr)
		}
	}
	return out, nil
}

func parseRebarRow(row tableRow) (RebarSpec, error) {
	spec := RebarSpec{
		ID:       row.str("id"),
		Category: row.str("category"),
	}
	if spec.ID == "" {
		return spec, fmt.Errorf("id is required")
	}

	var err error
	if spec.Diameter, err = row.number("diameter"); err != nil {
		return spec, err
	}
	if spec.Positions, err = row.integer("positions"); err != nil {
		return spec, err
	}
	if absent := row.str("absent"); absent != "" {
		for _, part := range strings.Split(absent, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return spec, fmt.Errorf("column absent: %q is not an integer", part)
			}
			spec.Absent = append(spec.Absent, idx)
		}
	}
	spacing, err := row.point("spacing_x", "spacing_y", "spacing_z")
	if err != nil {
		return spec, err
	}
	if spacing != nil {
		spec.Spacing = *spacing
	}
	return spec, nil
}

func parseSegmentRow(row tableRow) (SegmentSpec, error) {
	seg := SegmentSpec{Type: strings.ToLower(row.str("type"))}

	p1, err := row.point("x1", "y1", "z1")
	if err != nil {
		return seg, err
	}
	p2, err := row.point("x2", "y2", "z2")
	if err != nil {
		return seg, err
	}
	p3, err := row.point("x3", "y3", "z3")
	if err != nil {
		return seg, err
	}

	switch geometry.Kind(seg.Type) {
	case geometry.KindArc:
		seg.Start, seg.Mid, seg.End = p1, p2, p3
	default:
		seg.Start, seg.End = p1, p2
	}
	return seg, nil
}
