package curve

import (
	"errors"
	"sort"
	"time"
)

// ErrEmpty is returned when a benchmark curve has no points.
var ErrEmpty = errors.New("curve: benchmark curve has no points")

// tenorMatchTolerance is the window (in years) within which a requested
// tenor snaps to a quoted point instead of interpolating. Quoted tenors
// (e.g. exactly 5Y) should return the quoted yield, not interpolation noise.
const tenorMatchTolerance = 0.01

// Point is a single benchmark quote: tenor in years, yield in percent.
type Point struct {
	TenorYears float64 `json:"tenor_years"`
	YieldPct   float64 `json:"yield_pct"`
}

// Benchmark is an immutable snapshot of a benchmark yield curve.
//
// Points are expected sorted ascending by tenor; YieldAt sorts a copy on
// entry when they are not.
type Benchmark struct {
	AsOf   time.Time `json:"as_of"`
	Points []Point   `json:"points"`
}

// New builds a Benchmark with its points sorted ascending by tenor.
func New(asOf time.Time, points []Point) Benchmark {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sortPoints(sorted)
	return Benchmark{AsOf: asOf, Points: sorted}
}

// Flat builds a curve quoting the same yield at every tenor. Used mostly in
// tests and spread sanity checks.
func Flat(asOf time.Time, yieldPct float64, tenorsYears ...float64) Benchmark {
	points := make([]Point, 0, len(tenorsYears))
	for _, t := range tenorsYears {
		points = append(points, Point{TenorYears: t, YieldPct: yieldPct})
	}
	return New(asOf, points)
}

// YieldAt returns the benchmark yield (in percent) at the given tenor.
//
// A tenor within 0.01y of a quoted point returns that point's yield exactly.
// Between points the yield is linearly interpolated; outside the quoted
// range it is clamped to the nearest endpoint (flat extrapolation).
func (b Benchmark) YieldAt(tenorYears float64) (float64, error) {
	points := b.Points
	if len(points) == 0 {
		return 0, ErrEmpty
	}
	if !sort.SliceIsSorted(points, func(i, j int) bool {
		return points[i].TenorYears < points[j].TenorYears
	}) {
		points = make([]Point, len(b.Points))
		copy(points, b.Points)
		sortPoints(points)
	}

	// First index with tenor >= target.
	i := sort.Search(len(points), func(i int) bool {
		return points[i].TenorYears >= tenorYears
	})

	// Snap to a quoted tenor on either side of the insertion point.
	if i < len(points) && abs(points[i].TenorYears-tenorYears) < tenorMatchTolerance {
		return points[i].YieldPct, nil
	}
	if i > 0 && abs(points[i-1].TenorYears-tenorYears) < tenorMatchTolerance {
		return points[i-1].YieldPct, nil
	}

	// Flat extrapolation beyond the quoted range.
	if i <= 0 {
		return points[0].YieldPct, nil
	}
	if i >= len(points) {
		return points[len(points)-1].YieldPct, nil
	}

	lo, hi := points[i-1], points[i]
	w := (tenorYears - lo.TenorYears) / (hi.TenorYears - lo.TenorYears)
	return lo.YieldPct + w*(hi.YieldPct-lo.YieldPct), nil
}

func sortPoints(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].TenorYears < points[j].TenorYears
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
