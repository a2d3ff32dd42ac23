package selection

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/units"
)

// CategoryRebar is the element category kept by the selector. Elements of
// any other category are dropped from a selection.
const CategoryRebar = "rebar"

// Selection is a set of rebar elements read from a file.
// All lengths are expressed in Unit.
type Selection struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`

	// Working length unit of every coordinate and diameter (e.g. "mm", "ft")
	Unit string `json:"unit,omitempty" toml:"unit,omitempty"`

	Rebars []RebarSpec `json:"rebars" toml:"rebars"`
}

// RebarSpec describes one rebar element: a single bar or a set of parallel
// bars laid out at a constant spacing.
type RebarSpec struct {
	ID       string  `json:"id" toml:"id"`
	Category string  `json:"category,omitempty" toml:"category,omitempty"`
	Diameter float64 `json:"diameter" toml:"diameter"`

	// Number of bar positions in the set (default 1)
	Positions int `json:"positions,omitempty" toml:"positions,omitempty"`

	// Indices of positions that are not physically present
	Absent []int `json:"absent,omitempty" toml:"absent,omitempty"`

	// Offset between consecutive positions of a uniform set
	Spacing geometry.Point `json:"spacing,omitempty" toml:"spacing,omitempty"`

	// Centerline of position 0; other positions are translated copies
	Segments []SegmentSpec `json:"segments,omitempty" toml:"segments,omitempty"`

	// Per-position centerlines for sets of variable-length bars.
	// When present it replaces Segments and Spacing.
	Variable [][]SegmentSpec `json:"variable,omitempty" toml:"variable,omitempty"`
}

// SegmentSpec is a centerline segment as written in a file.
//
// A line needs Start and End. An arc is given either by Start, Mid and End
// (three points on the arc) or by Center, Radius, Mid and Length.
type SegmentSpec struct {
	Type   string          `json:"type" toml:"type"`
	Start  *geometry.Point `json:"start,omitempty" toml:"start,omitempty"`
	End    *geometry.Point `json:"end,omitempty" toml:"end,omitempty"`
	Mid    *geometry.Point `json:"mid,omitempty" toml:"mid,omitempty"`
	Center *geometry.Point `json:"center,omitempty" toml:"center,omitempty"`
	Radius float64         `json:"radius,omitempty" toml:"radius,omitempty"`
	Length float64         `json:"length,omitempty" toml:"length,omitempty"`
}

// PositionCount returns the number of positions, at least 1.
func (r *RebarSpec) PositionCount() int {
	if r.Positions < 1 {
		return 1
	}
	return r.Positions
}

// IsRebar reports whether the element belongs to the rebar category.
// Elements without a category are assumed to be rebars.
func (r *RebarSpec) IsRebar() bool {
	return r.Category == "" || strings.EqualFold(r.Category, CategoryRebar)
}

// Filter returns the rebar-category elements of the selection and the
// number of elements dropped.
func (s *Selection) Filter() ([]RebarSpec, int) {
	var kept []RebarSpec
	for _, r := range s.Rebars {
		if r.IsRebar() {
			kept = append(kept, r)
		}
	}
	return kept, len(s.Rebars) - len(kept)
}

// Validate checks if the selection definition is valid
func (s *Selection) Validate() error {
	if s.Unit != "" {
		if _, err := units.Lookup(s.Unit); err != nil {
			return &ValidationError{msg: err.Error()}
		}
	}
	for i := range s.Rebars {
		if err := s.Rebars[i].validate(); err != nil {
			return &ValidationError{msg: fmt.Sprintf("rebar %d (%s): %s", i+1, s.Rebars[i].ID, err)}
		}
	}
	return nil
}

func (r *RebarSpec) validate() error {
	if !r.IsRebar() {
		return nil
	}
	if r.Diameter <= 0 {
		return fmt.Errorf("diameter must be positive")
	}
	if r.Positions < 0 {
		return fmt.Errorf("positions must not be negative")
	}
	n := r.PositionCount()
	for _, a := range r.Absent {
		if a < 0 || a >= n {
			return fmt.Errorf("absent position %d out of range [0, %d)", a, n)
		}
	}
	if len(r.Variable) > 0 {
		if len(r.Variable) != n {
			return fmt.Errorf("variable layout has %d centerlines for %d positions", len(r.Variable), n)
		}
		return nil
	}
	if len(r.Segments) == 0 {
		return fmt.Errorf("at least one centerline segment is required")
	}
	return nil
}

// ValidationError represents a selection validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
