package mass

import (
	"errors"

	"github.com/alexiusacademia/gorebar/internal/geometry"
)

// Computation errors. Every failure returned by the engine wraps exactly
// one of these, with the rebar, position and segment that caused it.
var (
	// ErrEmptyInput is returned when there is nothing to aggregate.
	ErrEmptyInput = errors.New("empty input")

	// ErrZeroMass is returned when the masses to combine sum to zero.
	ErrZeroMass = errors.New("zero total mass")

	// ErrUnsupportedGeometry is returned for segments that are neither lines nor arcs.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")

	// ErrDegenerateGeometry is returned when a segment has no usable length
	// or direction.
	ErrDegenerateGeometry = geometry.ErrDegenerate
)

// Kind returns a short machine-readable name for the computation error
// wrapped by err, or "" when err is not one of them.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrZeroMass):
		return "zero_mass"
	case errors.Is(err, ErrUnsupportedGeometry):
		return "unsupported_geometry"
	case errors.Is(err, ErrDegenerateGeometry):
		return "degenerate_geometry"
	}
	return ""
}
