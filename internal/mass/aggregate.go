package mass

import (
	"github.com/alexiusacademia/gorebar/internal/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// WeightedPoint is a located mass.
type WeightedPoint struct {
	Location geometry.Point
	Mass     float64
}

// Combine returns the mass-weighted mean location of points together with
// their total mass. The same rule applies at every aggregation level
// (segments of a bar, positions of a set, bars of a selection).
func Combine(points []WeightedPoint) (WeightedPoint, error) {
	if len(points) == 0 {
		return WeightedPoint{}, ErrEmptyInput
	}

	var moment r3.Vec
	var total float64
	for _, p := range points {
		moment = r3.Add(moment, r3.Scale(p.Mass, p.Location))
		total += p.Mass
	}

	if total == 0 {
		return WeightedPoint{}, ErrZeroMass
	}

	return WeightedPoint{
		Location: r3.Vec{X: moment.X / total, Y: moment.Y / total, Z: moment.Z / total},
		Mass:     total,
	}, nil
}
