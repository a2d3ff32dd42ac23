package report

import (
	"encoding/json"
	"io"

	"github.com/alexiusacademia/gorebar/internal/mass"
	"github.com/alexiusacademia/gorebar/internal/units"
)

// Vec is a JSON point.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PositionOutput is one bar position.
type PositionOutput struct {
	Index    int     `json:"index"`
	Mass     float64 `json:"mass"`
	Centroid Vec     `json:"centroid"`
}

// RebarOutput is one rebar element.
type RebarOutput struct {
	ID        string           `json:"id"`
	Diameter  float64          `json:"diameter"`
	Mass      float64          `json:"mass"`
	Centroid  Vec              `json:"centroid"`
	Positions []PositionOutput `json:"positions"`
}

// Output is the JSON form of a result, shared by the CLI and the API.
type Output struct {
	Name        string        `json:"name,omitempty"`
	Unit        string        `json:"unit"`
	Location    Vec           `json:"location"`
	TotalMass   float64       `json:"total_mass"`
	MassRounded float64       `json:"mass_rounded"`
	Dropped     int           `json:"dropped,omitempty"`
	Rebars      []RebarOutput `json:"rebars"`
}

// NewOutput converts res. Total mass is also given rounded to precision
// decimals.
func NewOutput(res *mass.Result, system units.System, precision int) Output {
	out := Output{
		Unit:        system.Name,
		Location:    Vec{res.Location.X, res.Location.Y, res.Location.Z},
		TotalMass:   res.TotalMass,
		MassRounded: units.Round(res.TotalMass, precision),
		Rebars:      make([]RebarOutput, 0, len(res.Rebars)),
	}
	for _, rb := range res.Rebars {
		ro := RebarOutput{
			ID:        rb.ID,
			Diameter:  rb.Diameter,
			Mass:      rb.Mass,
			Centroid:  Vec{rb.Location.X, rb.Location.Y, rb.Location.Z},
			Positions: make([]PositionOutput, 0, len(rb.Positions)),
		}
		for _, p := range rb.Positions {
			ro.Positions = append(ro.Positions, PositionOutput{
				Index:    p.Index,
				Mass:     p.Mass,
				Centroid: Vec{p.Location.X, p.Location.Y, p.Location.Z},
			})
		}
		out.Rebars = append(out.Rebars, ro)
	}
	return out
}

// WriteJSON writes out as indented JSON.
func WriteJSON(w io.Writer, out Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
