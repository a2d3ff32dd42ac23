package units

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Material constants

const (
	// SteelDensity is the mass density of reinforcing steel (kg/m³)
	SteelDensity = 7850.0

	// DefaultPrecision is the number of decimals used when displaying mass
	DefaultPrecision = 2
)

// System describes the working length unit of the geometry.
// All lengths handed to the mass engine are expressed in this unit.
type System struct {
	Name          string  // short name used in config and flags (e.g. "mm")
	Label         string  // human readable name
	MetersPerUnit float64 // length of one unit in meters
}

var (
	Millimeters = System{Name: "mm", Label: "millimeter", MetersPerUnit: 0.001}
	Centimeters = System{Name: "cm", Label: "centimeter", MetersPerUnit: 0.01}
	Meters      = System{Name: "m", Label: "meter", MetersPerUnit: 1}
	Inches      = System{Name: "in", Label: "inch", MetersPerUnit: 0.0254}
	Feet        = System{Name: "ft", Label: "foot", MetersPerUnit: 0.3048}
)

var systems = map[string]System{
	"mm":          Millimeters,
	"millimeter":  Millimeters,
	"millimeters": Millimeters,
	"cm":          Centimeters,
	"m":           Meters,
	"meter":       Meters,
	"meters":      Meters,
	"in":          Inches,
	"inch":        Inches,
	"ft":          Feet,
	"foot":        Feet,
	"feet":        Feet,
}

// Lookup returns the unit system registered under name (case-insensitive).
func Lookup(name string) (System, error) {
	s, ok := systems[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return System{}, fmt.Errorf("unknown length unit %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// All returns the distinct unit systems ordered from smallest to largest unit.
func All() []System {
	return []System{Millimeters, Centimeters, Inches, Feet, Meters}
}

// Names returns the short names of all unit systems, sorted.
func Names() []string {
	var names []string
	for _, s := range All() {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Density converts a density given in kg/m³ to kg per cubic working unit.
// For feet and 7850 kg/m³ this yields 222.2872457472 kg/ft³.
func (s System) Density(kgPerCubicMeter float64) float64 {
	m := s.ToMeters(1)
	return kgPerCubicMeter * m * m * m
}

// FromMeters converts a length in meters to the working unit.
func (s System) FromMeters(m float64) float64 {
	return m / s.MetersPerUnit
}

// ToMeters converts a length in the working unit to meters.
func (s System) ToMeters(v float64) float64 {
	return v * s.MetersPerUnit
}

func (s System) String() string {
	return s.Name
}

// Round rounds v to the given number of decimals. Ties go away from zero,
// not to even, so 0.125 shows as 0.13 rather than 0.12.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
