package selection

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/mass"
	"gonum.org/v1/gonum/spatial/r3"
)

// Bar is a rebar element resolved to geometry. It implements mass.Rebar.
type Bar struct {
	id       string
	diameter float64
	count    int
	absent   map[int]bool

	// uniform layout
	shape   []geometry.Segment
	spacing geometry.Point

	// variable-length layout, one centerline per position
	variable [][]geometry.Segment
}

func (b *Bar) ID() string         { return b.id }
func (b *Bar) Diameter() float64  { return b.diameter }
func (b *Bar) PositionCount() int { return b.count }

func (b *Bar) PositionExists(i int) bool {
	return i >= 0 && i < b.count && !b.absent[i]
}

// Centerline returns the segments of position i. Uniform sets translate the
// base shape by i spacings; variable sets return their own centerline.
func (b *Bar) Centerline(i int) ([]geometry.Segment, error) {
	if i < 0 || i >= b.count {
		return nil, fmt.Errorf("position %d out of range [0, %d)", i, b.count)
	}
	if b.variable != nil {
		return b.variable[i], nil
	}
	if i == 0 {
		return b.shape, nil
	}
	return geometry.TranslateAll(b.shape, r3.Scale(float64(i), b.spacing)), nil
}

// Bar resolves the element's segments to geometry.
func (r *RebarSpec) Bar() (*Bar, error) {
	b := &Bar{
		id:       r.ID,
		diameter: r.Diameter,
		count:    r.PositionCount(),
		absent:   make(map[int]bool, len(r.Absent)),
		spacing:  r.Spacing,
	}
	for _, a := range r.Absent {
		b.absent[a] = true
	}

	if len(r.Variable) > 0 {
		b.variable = make([][]geometry.Segment, len(r.Variable))
		for i, specs := range r.Variable {
			segs, err := resolveAll(specs)
			if err != nil {
				return nil, fmt.Errorf("rebar %q: position %d: %w", r.ID, i, err)
			}
			b.variable[i] = segs
		}
		return b, nil
	}

	segs, err := resolveAll(r.Segments)
	if err != nil {
		return nil, fmt.Errorf("rebar %q: %w", r.ID, err)
	}
	b.shape = segs
	return b, nil
}

// Bars resolves every rebar-category element of the selection.
func (s *Selection) Bars() ([]mass.Rebar, error) {
	specs, _ := s.Filter()
	rebars := make([]mass.Rebar, 0, len(specs))
	for i := range specs {
		b, err := specs[i].Bar()
		if err != nil {
			return nil, err
		}
		rebars = append(rebars, b)
	}
	return rebars, nil
}

func resolveAll(specs []SegmentSpec) ([]geometry.Segment, error) {
	segs := make([]geometry.Segment, 0, len(specs))
	for j, spec := range specs {
		seg, err := spec.Segment()
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", j, err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// Segment converts the file representation to a geometry segment.
func (s SegmentSpec) Segment() (geometry.Segment, error) {
	switch geometry.Kind(strings.ToLower(s.Type)) {
	case geometry.KindLine:
		if s.Start == nil || s.End == nil {
			return nil, &ValidationError{msg: "line requires start and end"}
		}
		return geometry.Line{Start: *s.Start, End: *s.End}, nil

	case geometry.KindArc:
		if s.Start != nil && s.Mid != nil && s.End != nil {
			return geometry.ArcThrough(*s.Start, *s.Mid, *s.End)
		}
		if s.Center == nil || s.Mid == nil {
			return nil, &ValidationError{msg: "arc requires start, mid and end, or center, radius, mid and length"}
		}
		return geometry.Arc{
			Center:    *s.Center,
			Radius:    s.Radius,
			Mid:       *s.Mid,
			ArcLength: s.Length,
		}, nil
	}
	return nil, fmt.Errorf("%w: segment type %q", mass.ErrUnsupportedGeometry, s.Type)
}
