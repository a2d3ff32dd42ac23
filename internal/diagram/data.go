package diagram

import (
	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/mass"
)

// arcChords is the number of chords used to draw an arc.
const arcChords = 16

// FromResult projects the centerlines of rebars and the centroids of res
// onto plane. rebars must be the slice res was computed from.
func FromResult(title, unit string, plane Plane, rebars []mass.Rebar, res *mass.Result) (CoGDiagramData, error) {
	data := CoGDiagramData{
		Title:     title,
		Unit:      unit,
		Plane:     plane,
		CoG:       plane.Project(res.Location),
		TotalMass: res.TotalMass,
	}

	for i, r := range rebars {
		bar := Bar{ID: r.ID()}
		if i < len(res.Rebars) {
			bar.Centroid = plane.Project(res.Rebars[i].Location)
			bar.Mass = res.Rebars[i].Mass
		}
		for _, pos := range mass.ExistingPositions(r) {
			segs, err := r.Centerline(pos)
			if err != nil {
				return CoGDiagramData{}, err
			}
			var path []Point
			for _, seg := range segs {
				for _, p := range geometry.Tessellate(seg, arcChords) {
					path = append(path, plane.Project(p))
				}
			}
			bar.Paths = append(bar.Paths, path)
		}
		data.Bars = append(data.Bars, bar)
	}
	return data, nil
}
