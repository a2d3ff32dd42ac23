package mass

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// ArcModel selects how the centroid of a curved bar is offset from the arc
// center.
type ArcModel string

const (
	// ArcAnnular treats the bend as an annular sector of width 2r:
	//   p = (2·sinα / 3α) · [(R+r)³ − (R−r)³] / [(R+r)² − (R−r)²]
	ArcAnnular ArcModel = "annular"

	// ArcToroidal uses the exact centroid of a torus sector with circular
	// cross-section:
	//   p = (sinα / α) · (R + r² / 4R)
	ArcToroidal ArcModel = "toroidal"
)

// ParseArcModel validates a model name. An empty name selects ArcAnnular.
func ParseArcModel(name string) (ArcModel, error) {
	switch ArcModel(strings.ToLower(strings.TrimSpace(name))) {
	case "", ArcAnnular:
		return ArcAnnular, nil
	case ArcToroidal:
		return ArcToroidal, nil
	}
	return "", fmt.Errorf("unknown arc model %q (supported: %s, %s)", name, ArcAnnular, ArcToroidal)
}

// SegmentCentroid computes the centroid and mass of one centerline segment
// of a bar with the given nominal diameter. density is in kg per cubic
// working unit.
func SegmentCentroid(seg geometry.Segment, diameter, density float64, model ArcModel) (WeightedPoint, error) {
	if diameter <= 0 {
		return WeightedPoint{}, fmt.Errorf("%w: bar diameter %g must be positive", ErrDegenerateGeometry, diameter)
	}

	r := diameter / 2
	area := math.Pi * r * r

	switch s := seg.(type) {
	case geometry.Line:
		if err := geometry.Validate(s); err != nil {
			return WeightedPoint{}, err
		}
		return WeightedPoint{
			Location: s.Midpoint(),
			Mass:     area * s.Length() * density,
		}, nil

	case geometry.Arc:
		if err := geometry.Validate(s); err != nil {
			return WeightedPoint{}, err
		}
		p := arcOffset(s.Radius, r, s.ArcLength/(2*s.Radius), model)
		u := r3.Unit(r3.Sub(s.Mid, s.Center))
		return WeightedPoint{
			Location: r3.Add(s.Center, r3.Scale(p, u)),
			Mass:     area * s.ArcLength * density,
		}, nil
	}

	return WeightedPoint{}, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, seg)
}

// arcOffset returns the distance from the arc center to the centroid of a
// bent bar with centerline radius R, cross-section radius r and half-sweep
// alpha (radians).
func arcOffset(R, r, alpha float64, model ArcModel) float64 {
	if model == ArcToroidal {
		return sinc(alpha) * (R + r*r/(4*R))
	}
	outer, inner := R+r, R-r
	ratio := (outer*outer*outer - inner*inner*inner) / (outer*outer - inner*inner)
	return 2 * sinc(alpha) / 3 * ratio
}

// sinc returns sin(x)/x, with the limit 1 at x = 0.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}
