package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/meridianfi/bondlib/curve"
)

// CurveProvider supplies immutable benchmark-curve snapshots. The analytics
// engine never talks to a provider directly; callers fetch a snapshot and
// pass it into the quote.
type CurveProvider interface {
	BenchmarkCurve(ctx context.Context, name string, asOf time.Time) (curve.Benchmark, error)
}

// MapFeed is a map-backed provider for tests and offline runs.
type MapFeed struct {
	curves map[string]curve.Benchmark
}

func NewMapFeed() *MapFeed {
	return &MapFeed{curves: make(map[string]curve.Benchmark)}
}

func (f *MapFeed) Add(name string, b curve.Benchmark) *MapFeed {
	f.curves[feedKey(name, b.AsOf)] = b
	return f
}

func (f *MapFeed) BenchmarkCurve(_ context.Context, name string, asOf time.Time) (curve.Benchmark, error) {
	b, ok := f.curves[feedKey(name, asOf)]
	if !ok {
		return curve.Benchmark{}, fmt.Errorf("MapFeed: no curve %q as of %s", name, asOf.Format("2006-01-02"))
	}
	return b, nil
}

func feedKey(name string, asOf time.Time) string {
	return name + "|" + asOf.Format("2006-01-02")
}
