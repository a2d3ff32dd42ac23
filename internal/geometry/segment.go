// Package geometry defines the centerline primitives of a reinforcement bar.
//
// A bar path is an ordered list of segments. Only straight lines and
// circular arcs exist; Segment is a closed set so every consumer can switch
// over the two kinds exhaustively.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a location in 3-D model space, in the working length unit.
type Point = r3.Vec

// ErrDegenerate is returned when a segment cannot define a direction or a
// positive length (zero-length lines, arcs whose midpoint sits on the center).
var ErrDegenerate = errors.New("degenerate geometry")

// radiusTolerance is the relative difference allowed between an arc's
// radius and the distance from its center to its midpoint.
const radiusTolerance = 1e-6

// Kind names a segment variant.
type Kind string

const (
	KindLine Kind = "line"
	KindArc  Kind = "arc"
)

// Segment is one centerline primitive. It is implemented only by Line and Arc.
type Segment interface {
	Kind() Kind
	Length() float64
	segment()
}

// Line is a straight centerline segment.
type Line struct {
	Start Point
	End   Point
}

func (Line) Kind() Kind { return KindLine }

// Length is the distance between the two endpoints.
func (l Line) Length() float64 { return r3.Norm(r3.Sub(l.End, l.Start)) }

// Midpoint returns (Start+End)/2.
func (l Line) Midpoint() Point { return r3.Scale(0.5, r3.Add(l.Start, l.End)) }

func (Line) segment() {}

// Arc is a circular centerline segment.
//
// Mid is the point halfway along the arc and fixes the side of the center
// the material lies on. Normal is the plane normal oriented so that
// rotating the start direction about it sweeps through Mid; it is optional
// and only needed to tessellate the arc for drawing.
type Arc struct {
	Center    Point
	Radius    float64
	Mid       Point
	ArcLength float64
	Normal    Point
}

func (Arc) Kind() Kind { return KindArc }

func (a Arc) Length() float64 { return a.ArcLength }

// Sweep returns the total sweep angle in radians.
func (a Arc) Sweep() float64 { return a.ArcLength / a.Radius }

func (Arc) segment() {}

// ArcThrough builds the arc that starts at start, passes through mid and
// ends at end. The stored Mid is the angular midpoint of the resulting
// arc, which need not equal the given mid point.
func ArcThrough(start, mid, end Point) (Arc, error) {
	a := r3.Sub(start, end)
	b := r3.Sub(mid, end)
	axb := r3.Cross(a, b)
	den := 2 * r3.Norm2(axb)
	if den == 0 {
		return Arc{}, fmt.Errorf("%w: arc points %v, %v, %v are collinear", ErrDegenerate, start, mid, end)
	}
	num := r3.Cross(r3.Sub(r3.Scale(r3.Norm2(a), b), r3.Scale(r3.Norm2(b), a)), axb)
	center := r3.Add(end, r3.Scale(1/den, num))

	vs := r3.Sub(start, center)
	vm := r3.Sub(mid, center)
	ve := r3.Sub(end, center)
	radius := r3.Norm(vs)

	// The triangle start, mid, end winds the same way as the arc.
	normal := r3.Unit(r3.Cross(r3.Sub(mid, start), r3.Sub(end, mid)))

	sweep := angle(vs, vm) + angle(vm, ve)
	half := r3.NewRotation(sweep/2, normal).Rotate(vs)

	return Arc{
		Center:    center,
		Radius:    radius,
		Mid:       r3.Add(center, half),
		ArcLength: radius * sweep,
		Normal:    normal,
	}, nil
}

// angle returns the unsigned angle between u and v in [0, π].
func angle(u, v Point) float64 {
	return math.Atan2(r3.Norm(r3.Cross(u, v)), r3.Dot(u, v))
}

// Validate checks the invariants every segment must hold before mass
// computation: positive length, and for arcs a positive radius and a
// midpoint lying on the circle of that radius.
func Validate(s Segment) error {
	switch seg := s.(type) {
	case Line:
		if seg.Length() <= 0 {
			return fmt.Errorf("%w: line from %v to %v has zero length", ErrDegenerate, seg.Start, seg.End)
		}
	case Arc:
		if seg.Radius <= 0 {
			return fmt.Errorf("%w: arc radius %g must be positive", ErrDegenerate, seg.Radius)
		}
		if seg.ArcLength <= 0 {
			return fmt.Errorf("%w: arc length %g must be positive", ErrDegenerate, seg.ArcLength)
		}
		d := r3.Norm(r3.Sub(seg.Mid, seg.Center))
		if d == 0 {
			return fmt.Errorf("%w: arc midpoint coincides with center %v", ErrDegenerate, seg.Center)
		}
		if math.Abs(d-seg.Radius) > radiusTolerance*seg.Radius {
			return fmt.Errorf("%w: arc midpoint is %g from center but radius is %g", ErrDegenerate, d, seg.Radius)
		}
	}
	return nil
}

// Translate returns s moved by offset. Unknown segment values are returned as is.
func Translate(s Segment, offset Point) Segment {
	switch seg := s.(type) {
	case Line:
		return Line{Start: r3.Add(seg.Start, offset), End: r3.Add(seg.End, offset)}
	case Arc:
		seg.Center = r3.Add(seg.Center, offset)
		seg.Mid = r3.Add(seg.Mid, offset)
		return seg
	}
	return s
}

// TranslateAll moves every segment in path by offset.
func TranslateAll(path []Segment, offset Point) []Segment {
	out := make([]Segment, len(path))
	for i, s := range path {
		out[i] = Translate(s, offset)
	}
	return out
}

// Tessellate approximates s by a polyline. Arcs are split into n chords;
// an arc without a normal collapses to its midpoint.
func Tessellate(s Segment, n int) []Point {
	switch seg := s.(type) {
	case Line:
		return []Point{seg.Start, seg.End}
	case Arc:
		if r3.Norm(seg.Normal) == 0 || seg.Radius <= 0 {
			return []Point{seg.Mid}
		}
		if n < 1 {
			n = 1
		}
		sweep := seg.Sweep()
		radial := r3.Scale(seg.Radius, r3.Unit(r3.Sub(seg.Mid, seg.Center)))
		pts := make([]Point, 0, n+1)
		for i := 0; i <= n; i++ {
			theta := -sweep/2 + sweep*float64(i)/float64(n)
			pts = append(pts, r3.Add(seg.Center, r3.NewRotation(theta, seg.Normal).Rotate(radial)))
		}
		return pts
	}
	return nil
}
