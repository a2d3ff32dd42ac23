package mass

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/alexiusacademia/gorebar/internal/geometry"
	"github.com/alexiusacademia/gorebar/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

type pt = geometry.Point

// stubRebar is an in-memory provider. Positions missing from paths are
// reported as absent.
type stubRebar struct {
	id       string
	diameter float64
	count    int
	paths    map[int][]geometry.Segment
	err      error

	mu        sync.Mutex
	requested []int
}

func (s *stubRebar) ID() string         { return s.id }
func (s *stubRebar) Diameter() float64  { return s.diameter }
func (s *stubRebar) PositionCount() int { return s.count }

func (s *stubRebar) PositionExists(i int) bool {
	_, ok := s.paths[i]
	return ok
}

func (s *stubRebar) Centerline(i int) ([]geometry.Segment, error) {
	s.mu.Lock()
	s.requested = append(s.requested, i)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.paths[i], nil
}

func line(x1, y1, z1, x2, y2, z2 float64) geometry.Line {
	return geometry.Line{Start: pt{X: x1, Y: y1, Z: z1}, End: pt{X: x2, Y: y2, Z: z2}}
}

func assertPoint(t *testing.T, want, got pt, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

// notASegment satisfies geometry.Segment by embedding a Line but is
// neither a Line nor an Arc.
type notASegment struct{ geometry.Line }

func TestSegmentCentroid_LineMass(t *testing.T) {
	t.Parallel()
	density := units.Millimeters.Density(units.SteelDensity)
	tests := []struct {
		name string
		d, l float64
	}{
		{"10mm x 1m", 10, 1000},
		{"16mm x 2.5m", 16, 2500},
		{"32mm x 12m", 32, 12000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp, err := SegmentCentroid(line(0, 0, 0, 0, 0, tt.l), tt.d, density, ArcAnnular)
			require.NoError(t, err)
			want := math.Pi * (tt.d / 2) * (tt.d / 2) * tt.l * density
			assert.InDelta(t, want, wp.Mass, 1e-12)
		})
	}
}

func TestSegmentCentroid_LineMidpoint(t *testing.T) {
	wp, err := SegmentCentroid(line(-4, 2, 10, 6, 8, -2), 12, 1, ArcAnnular)
	require.NoError(t, err)
	assertPoint(t, pt{X: 1, Y: 5, Z: 4}, wp.Location, tol)
}

func semicircle(R float64) geometry.Arc {
	return geometry.Arc{
		Center:    pt{},
		Radius:    R,
		Mid:       pt{Y: R},
		ArcLength: math.Pi * R,
	}
}

func TestSegmentCentroid_ArcAnnular(t *testing.T) {
	R, d := 100.0, 20.0
	r := d / 2
	wp, err := SegmentCentroid(semicircle(R), d, 1, ArcAnnular)
	require.NoError(t, err)

	alpha := math.Pi / 2
	p := (2 * math.Sin(alpha) / (3 * alpha)) *
		(math.Pow(R+r, 3) - math.Pow(R-r, 3)) / (math.Pow(R+r, 2) - math.Pow(R-r, 2))
	assertPoint(t, pt{Y: p}, wp.Location, tol)
	assert.InDelta(t, math.Pi*r*r*math.Pi*R, wp.Mass, 1e-9)
}

func TestSegmentCentroid_ArcToroidal(t *testing.T) {
	R, d := 100.0, 20.0
	wp, err := SegmentCentroid(semicircle(R), d, 1, ArcToroidal)
	require.NoError(t, err)

	p := 2 / math.Pi * (R + 100.0/(4*R))
	assertPoint(t, pt{Y: p}, wp.Location, tol)
}

func TestSegmentCentroid_SemicircleOffsetInsideBend(t *testing.T) {
	t.Parallel()
	R := 50.0
	for _, model := range []ArcModel{ArcAnnular, ArcToroidal} {
		for _, r := range []float64{0.5, 5, 20, 40, 49.9} {
			wp, err := SegmentCentroid(semicircle(R), 2*r, 1, model)
			require.NoError(t, err)
			p := wp.Location.Y
			assert.Greater(t, p, 0.0, "model=%s r=%g", model, r)
			assert.Less(t, p, R, "model=%s r=%g", model, r)
		}
	}
}

func TestSegmentCentroid_ArcOffCenterDirection(t *testing.T) {
	// quarter bend centered at (10, 10, 5), bulging toward -x,-y
	arc := geometry.Arc{
		Center:    pt{X: 10, Y: 10, Z: 5},
		Radius:    4,
		Mid:       pt{X: 10 - 4/math.Sqrt2, Y: 10 - 4/math.Sqrt2, Z: 5},
		ArcLength: 2 * math.Pi,
	}
	wp, err := SegmentCentroid(arc, 1, 1, ArcAnnular)
	require.NoError(t, err)

	p := arcOffset(4, 0.5, math.Pi/4, ArcAnnular)
	assertPoint(t, pt{X: 10 - p/math.Sqrt2, Y: 10 - p/math.Sqrt2, Z: 5}, wp.Location, tol)
}

func TestSegmentCentroid_Degenerate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		seg  geometry.Segment
		d    float64
	}{
		{"arc midpoint on center", geometry.Arc{Center: pt{X: 1}, Radius: 1, Mid: pt{X: 1}, ArcLength: 1}, 1},
		{"zero length line", line(1, 1, 1, 1, 1, 1), 1},
		{"zero diameter", line(0, 0, 0, 1, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SegmentCentroid(tt.seg, tt.d, 1, ArcAnnular)
			assert.ErrorIs(t, err, ErrDegenerateGeometry)
			assert.NotErrorIs(t, err, ErrUnsupportedGeometry)
		})
	}
}

func TestSegmentCentroid_Unsupported(t *testing.T) {
	_, err := SegmentCentroid(notASegment{line(0, 0, 0, 1, 0, 0)}, 1, 1, ArcAnnular)
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)

	_, err = SegmentCentroid(nil, 1, 1, ArcAnnular)
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)
}

func TestParseArcModel(t *testing.T) {
	m, err := ParseArcModel("")
	require.NoError(t, err)
	assert.Equal(t, ArcAnnular, m)

	m, err = ParseArcModel("Toroidal")
	require.NoError(t, err)
	assert.Equal(t, ArcToroidal, m)

	_, err = ParseArcModel("parabolic")
	assert.Error(t, err)
}

func TestCombine_Empty(t *testing.T) {
	_, err := Combine(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCombine_ZeroMass(t *testing.T) {
	_, err := Combine([]WeightedPoint{
		{Location: pt{X: 1}, Mass: 0},
		{Location: pt{X: 2}, Mass: 0},
	})
	assert.ErrorIs(t, err, ErrZeroMass)
}

func TestCombine_Identity(t *testing.T) {
	p := WeightedPoint{Location: pt{X: 1.25, Y: -3.5, Z: 7}, Mass: 3.2}

	got, err := Combine([]WeightedPoint{p})
	require.NoError(t, err)
	assertPoint(t, p.Location, got.Location, tol)
	assert.InDelta(t, p.Mass, got.Mass, tol)

	got, err = Combine([]WeightedPoint{p, p})
	require.NoError(t, err)
	assertPoint(t, p.Location, got.Location, tol)
	assert.InDelta(t, 2*p.Mass, got.Mass, tol)
}

func TestCombine_WeightedMean(t *testing.T) {
	got, err := Combine([]WeightedPoint{
		{Location: pt{X: 0}, Mass: 3},
		{Location: pt{X: 4, Y: 8}, Mass: 1},
	})
	require.NoError(t, err)
	assertPoint(t, pt{X: 1, Y: 2}, got.Location, tol)
	assert.InDelta(t, 4.0, got.Mass, tol)
}

func TestCombine_OrderIndependent(t *testing.T) {
	a := WeightedPoint{Location: pt{X: 1, Y: 2, Z: 3}, Mass: 2}
	b := WeightedPoint{Location: pt{X: -5, Y: 0.5, Z: 9}, Mass: 7}
	c := WeightedPoint{Location: pt{X: 12, Y: -4, Z: 0}, Mass: 0.25}

	ab, err := Combine([]WeightedPoint{a, b})
	require.NoError(t, err)
	ba, err := Combine([]WeightedPoint{b, a})
	require.NoError(t, err)
	assertPoint(t, ab.Location, ba.Location, tol)
	assert.InDelta(t, ab.Mass, ba.Mass, tol)

	all, err := Combine([]WeightedPoint{a, b, c})
	require.NoError(t, err)
	abThenC, err := Combine([]WeightedPoint{ab, c})
	require.NoError(t, err)
	assertPoint(t, all.Location, abThenC.Location, tol)
	assert.InDelta(t, all.Mass, abThenC.Mass, tol)
}

func TestEngine_SingleStraightBar(t *testing.T) {
	e := NewEngine(units.Millimeters, units.SteelDensity)
	bar := &stubRebar{
		id: "B1", diameter: 10, count: 1,
		paths: map[int][]geometry.Segment{0: {line(0, 0, 0, 1000, 0, 0)}},
	}

	res, err := e.Compute([]Rebar{bar})
	require.NoError(t, err)

	assertPoint(t, pt{X: 500}, res.Location, tol)
	want := math.Pi * 25 * 1000 * 7850e-9
	assert.InDelta(t, want, res.TotalMass, 1e-12)
	assert.InDelta(t, 0.6165, res.TotalMass, 1e-4)
	assert.InDelta(t, 0.62, units.Round(res.TotalMass, 2), 1e-12)

	require.Len(t, res.Rebars, 1)
	assert.Equal(t, "B1", res.Rebars[0].ID)
	require.Len(t, res.Rebars[0].Positions, 1)
	assert.Equal(t, 0, res.Rebars[0].Positions[0].Index)
}

func TestEngine_FeetMatchesMillimeters(t *testing.T) {
	const mmPerFt = 304.8
	mm := NewEngine(units.Millimeters, units.SteelDensity)
	ft := NewEngine(units.Feet, units.SteelDensity)

	barMM := &stubRebar{id: "a", diameter: 12, count: 1,
		paths: map[int][]geometry.Segment{0: {line(0, 0, 0, 3000, 0, 0)}}}
	barFT := &stubRebar{id: "a", diameter: 12 / mmPerFt, count: 1,
		paths: map[int][]geometry.Segment{0: {line(0, 0, 0, 3000/mmPerFt, 0, 0)}}}

	a, err := mm.Compute([]Rebar{barMM})
	require.NoError(t, err)
	b, err := ft.Compute([]Rebar{barFT})
	require.NoError(t, err)
	assert.InDelta(t, a.TotalMass, b.TotalMass, 1e-9)
}

func TestEngine_GroupedSkipsAbsentPositions(t *testing.T) {
	e := NewEngine(units.Millimeters, units.SteelDensity)
	bar := &stubRebar{
		id: "G1", diameter: 12, count: 3,
		paths: map[int][]geometry.Segment{
			0: {line(0, 0, 0, 1000, 0, 0)},
			2: {line(0, 400, 0, 1000, 400, 0)},
		},
	}

	res, err := e.Compute([]Rebar{bar})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 2}, bar.requested)
	assertPoint(t, pt{X: 500, Y: 200}, res.Location, tol)

	single := math.Pi * 36 * 1000 * e.Density
	assert.InDelta(t, 2*single, res.TotalMass, 1e-12)

	require.Len(t, res.Rebars[0].Positions, 2)
	assert.Equal(t, 0, res.Rebars[0].Positions[0].Index)
	assert.Equal(t, 2, res.Rebars[0].Positions[1].Index)
}

func TestEngine_MultiSegmentBar(t *testing.T) {
	e := &Engine{Density: 1, ArcModel: ArcAnnular}
	// L-shaped bar: 300 along x then 100 along y
	bar := &stubRebar{
		id: "L", diameter: 2, count: 1,
		paths: map[int][]geometry.Segment{0: {
			line(0, 0, 0, 300, 0, 0),
			line(300, 0, 0, 300, 100, 0),
		}},
	}
	res, err := e.Compute([]Rebar{bar})
	require.NoError(t, err)

	// length-weighted midpoints
	assertPoint(t, pt{X: (150*300 + 300*100) / 400.0, Y: 50 * 100 / 400.0}, res.Location, tol)
	assert.InDelta(t, math.Pi*400, res.TotalMass, 1e-9)
}

func TestEngine_SelectionAcrossRebars(t *testing.T) {
	e := &Engine{Density: 1, Workers: 4}
	var rebars []Rebar
	for i := 0; i < 20; i++ {
		x := float64(i * 100)
		rebars = append(rebars, &stubRebar{
			id: "r", diameter: 2, count: 1,
			paths: map[int][]geometry.Segment{0: {line(x, 0, 0, x, 0, 10)}},
		})
	}
	res, err := e.Compute(rebars)
	require.NoError(t, err)
	assertPoint(t, pt{X: 950, Z: 5}, res.Location, 1e-9)
	assert.Len(t, res.Rebars, 20)

	seq := &Engine{Density: 1, Workers: 1}
	res1, err := seq.Compute(rebars)
	require.NoError(t, err)
	assert.Equal(t, res1.Location, res.Location)
	assert.Equal(t, res1.TotalMass, res.TotalMass)
}

func TestEngine_EmptySelection(t *testing.T) {
	_, err := NewEngine(units.Millimeters, units.SteelDensity).Compute(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestEngine_NoExistingPositions(t *testing.T) {
	bar := &stubRebar{id: "void", diameter: 10, count: 4, paths: map[int][]geometry.Segment{}}
	_, err := NewEngine(units.Millimeters, units.SteelDensity).Compute([]Rebar{bar})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), `rebar "void"`)
}

func TestEngine_ErrorCarriesContext(t *testing.T) {
	good := &stubRebar{id: "B1", diameter: 10, count: 1,
		paths: map[int][]geometry.Segment{0: {line(0, 0, 0, 1, 0, 0)}}}
	bad := &stubRebar{id: "B2", diameter: 10, count: 2,
		paths: map[int][]geometry.Segment{
			0: {line(0, 0, 0, 1, 0, 0)},
			1: {
				line(0, 0, 0, 1, 0, 0),
				geometry.Arc{Center: pt{}, Radius: 1, Mid: pt{}, ArcLength: 1},
			},
		}}

	_, err := NewEngine(units.Millimeters, units.SteelDensity).Compute([]Rebar{good, bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	assert.Contains(t, err.Error(), `rebar "B2": position 1: segment 1:`)
	assert.Equal(t, "degenerate_geometry", Kind(err))
}

func TestEngine_UnsupportedSegmentAborts(t *testing.T) {
	bar := &stubRebar{id: "S", diameter: 10, count: 1,
		paths: map[int][]geometry.Segment{0: {
			line(0, 0, 0, 1, 0, 0),
			notASegment{line(1, 0, 0, 2, 0, 0)},
		}}}
	res, err := NewEngine(units.Millimeters, units.SteelDensity).Compute([]Rebar{bar})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnsupportedGeometry)
}

func TestEngine_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("geometry unavailable")
	bar := &stubRebar{id: "P", diameter: 10, count: 1, err: boom,
		paths: map[int][]geometry.Segment{0: nil}}
	_, err := NewEngine(units.Millimeters, units.SteelDensity).Compute([]Rebar{bar})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `rebar "P": position 0`)
}

func TestEngine_EmptyCenterline(t *testing.T) {
	bar := &stubRebar{id: "E", diameter: 10, count: 1,
		paths: map[int][]geometry.Segment{0: {}}}
	_, err := NewEngine(units.Millimeters, units.SteelDensity).Compute([]Rebar{bar})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestExistingPositions(t *testing.T) {
	single := &stubRebar{count: 1, paths: map[int][]geometry.Segment{0: nil}}
	assert.Equal(t, []int{0}, ExistingPositions(single))
	assert.False(t, IsGrouped(single))

	group := &stubRebar{count: 5, paths: map[int][]geometry.Segment{0: nil, 3: nil, 4: nil}}
	assert.Equal(t, []int{0, 3, 4}, ExistingPositions(group))
	assert.True(t, IsGrouped(group))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "", Kind(errors.New("other")))
	assert.Equal(t, "empty_input", Kind(ErrEmptyInput))
	assert.Equal(t, "zero_mass", Kind(ErrZeroMass))
	assert.Equal(t, "unsupported_geometry", Kind(ErrUnsupportedGeometry))
}
