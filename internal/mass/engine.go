// Package mass computes the steel mass and center of gravity of a
// selection of reinforcement bars.
//
// A bar's centerline is split into segments, each segment is turned into a
// located mass, and located masses are combined position by position, bar
// by bar, and finally across the whole selection.
package mass

import (
	"fmt"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/sourcegraph/conc/iter"
)

// Rebar is the geometry of one rebar element as supplied by a provider.
// A rebar may be a set of parallel bars ("positions"), some of which may be
// absent from the pattern.
type Rebar interface {
	ID() string
	// Diameter is the nominal bar diameter in the working unit.
	Diameter() float64
	// PositionCount is the number of positions in the pattern (1 for a single bar).
	PositionCount() int
	// PositionExists reports whether the bar at index i is physically present.
	PositionExists(i int) bool
	// Centerline returns the ordered centerline segments of the bar at index i.
	Centerline(i int) ([]geometry.Segment, error)
}

// IsGrouped reports whether r describes more than one bar position.
func IsGrouped(r Rebar) bool {
	return r.PositionCount() > 1
}

// ExistingPositions lists the indices of r's positions that exist, in order.
// A single bar yields [0].
func ExistingPositions(r Rebar) []int {
	n := r.PositionCount()
	if n < 1 {
		n = 1
	}
	var idx []int
	for i := 0; i < n; i++ {
		if r.PositionExists(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// PositionResult is the centroid and mass of one bar position.
type PositionResult struct {
	Index int
	WeightedPoint
}

// RebarResult is the centroid and mass of one rebar element, with the
// contribution of each existing position.
type RebarResult struct {
	ID        string
	Diameter  float64
	Positions []PositionResult
	WeightedPoint
}

// Result is the center of gravity and total mass of a selection.
type Result struct {
	Location  geometry.Point
	TotalMass float64
	Rebars    []RebarResult
}

// Engine computes masses and centroids for one unit configuration.
// An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	Density  float64  // kg per cubic working unit
	ArcModel ArcModel // centroid model for arc segments
	Workers  int      // rebars evaluated concurrently, 0 means GOMAXPROCS
}

// NewEngine returns an engine for geometry expressed in system, with a
// material density given in kg/m³.
func NewEngine(system units.System, kgPerCubicMeter float64) *Engine {
	return &Engine{
		Density:  system.Density(kgPerCubicMeter),
		ArcModel: ArcAnnular,
	}
}

// Segment computes the located mass of a single centerline segment.
func (e *Engine) Segment(seg geometry.Segment, diameter float64) (WeightedPoint, error) {
	return SegmentCentroid(seg, diameter, e.Density, e.ArcModel)
}

// Position computes the located mass of the bar at index i of r.
func (e *Engine) Position(r Rebar, i int) (WeightedPoint, error) {
	segs, err := r.Centerline(i)
	if err != nil {
		return WeightedPoint{}, err
	}
	if len(segs) == 0 {
		return WeightedPoint{}, fmt.Errorf("no centerline segments: %w", ErrEmptyInput)
	}

	points := make([]WeightedPoint, 0, len(segs))
	for j, seg := range segs {
		wp, err := e.Segment(seg, r.Diameter())
		if err != nil {
			return WeightedPoint{}, fmt.Errorf("segment %d: %w", j, err)
		}
		points = append(points, wp)
	}
	return Combine(points)
}

// Rebar computes the located mass of every existing position of r and
// their combination.
func (e *Engine) Rebar(r Rebar) (RebarResult, error) {
	res := RebarResult{ID: r.ID(), Diameter: r.Diameter()}

	positions := ExistingPositions(r)
	if len(positions) == 0 {
		return res, fmt.Errorf("rebar %q: no existing positions: %w", r.ID(), ErrEmptyInput)
	}

	points := make([]WeightedPoint, 0, len(positions))
	for _, i := range positions {
		wp, err := e.Position(r, i)
		if err != nil {
			return res, fmt.Errorf("rebar %q: position %d: %w", r.ID(), i, err)
		}
		res.Positions = append(res.Positions, PositionResult{Index: i, WeightedPoint: wp})
		points = append(points, wp)
	}

	total, err := Combine(points)
	if err != nil {
		return res, fmt.Errorf("rebar %q: %w", r.ID(), err)
	}
	res.WeightedPoint = total
	return res, nil
}

// Compute returns the center of gravity and total mass of rebars.
// The first failing rebar, in input order, aborts the computation.
func (e *Engine) Compute(rebars []Rebar) (*Result, error) {
	if len(rebars) == 0 {
		return nil, fmt.Errorf("no rebars: %w", ErrEmptyInput)
	}

	type outcome struct {
		res RebarResult
		err error
	}
	mapper := iter.Mapper[Rebar, outcome]{MaxGoroutines: e.Workers}
	outcomes := mapper.Map(rebars, func(r *Rebar) outcome {
		res, err := e.Rebar(*r)
		return outcome{res: res, err: err}
	})

	result := &Result{Rebars: make([]RebarResult, 0, len(outcomes))}
	points := make([]WeightedPoint, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
		result.Rebars = append(result.Rebars, o.res)
		points = append(points, o.res.WeightedPoint)
	}

	total, err := Combine(points)
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}
	result.Location = total.Location
	result.TotalMass = total.Mass
	return result, nil
}
