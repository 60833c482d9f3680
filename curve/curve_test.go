package curve_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meridianfi/bondlib/curve"
)

func testCurve() curve.Benchmark {
	asOf := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	return curve.New(asOf, []curve.Point{
		{TenorYears: 0.25, YieldPct: 4.35},
		{TenorYears: 1, YieldPct: 4.10},
		{TenorYears: 2, YieldPct: 4.00},
		{TenorYears: 5, YieldPct: 4.10},
		{TenorYears: 10, YieldPct: 4.40},
	})
}

func TestYieldAt_ExactTenorSnaps(t *testing.T) {
	t.Parallel()

	c := testCurve()

	cases := []struct {
		tenor float64
		want  float64
	}{
		{5.0, 4.10},
		{5.005, 4.10},  // within the 0.01y snap window
		{4.9951, 4.10}, // just inside from below
		{0.25, 4.35},
		{10.0, 4.40},
	}
	for _, tc := range cases {
		got, err := c.YieldAt(tc.tenor)
		if err != nil {
			t.Fatalf("YieldAt(%v): %v", tc.tenor, err)
		}
		if got != tc.want {
			t.Fatalf("YieldAt(%v) = %v, want exact point yield %v", tc.tenor, got, tc.want)
		}
	}
}

func TestYieldAt_LinearInterpolation(t *testing.T) {
	t.Parallel()

	c := testCurve()

	// Midway between the 2y (4.00) and 5y (4.10) points.
	got, err := c.YieldAt(3.5)
	if err != nil {
		t.Fatalf("YieldAt: %v", err)
	}
	if math.Abs(got-4.05) > 1e-12 {
		t.Fatalf("YieldAt(3.5) = %v, want 4.05", got)
	}
}

func TestYieldAt_FlatExtrapolation(t *testing.T) {
	t.Parallel()

	c := testCurve()

	short, err := c.YieldAt(0.02)
	if err != nil {
		t.Fatalf("YieldAt: %v", err)
	}
	if short != 4.35 {
		t.Fatalf("short-end extrapolation = %v, want 4.35", short)
	}

	long, err := c.YieldAt(40)
	if err != nil {
		t.Fatalf("YieldAt: %v", err)
	}
	if long != 4.40 {
		t.Fatalf("long-end extrapolation = %v, want 4.40", long)
	}
}

func TestYieldAt_Empty(t *testing.T) {
	t.Parallel()

	var c curve.Benchmark
	if _, err := c.YieldAt(5); !errors.Is(err, curve.ErrEmpty) {
		t.Fatalf("error = %v, want ErrEmpty", err)
	}
}

func TestYieldAt_UnsortedInputIsSorted(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	// Bypass New to simulate a caller handing over unsorted points.
	c := curve.Benchmark{AsOf: asOf, Points: []curve.Point{
		{TenorYears: 10, YieldPct: 4.40},
		{TenorYears: 1, YieldPct: 4.10},
		{TenorYears: 5, YieldPct: 4.10},
		{TenorYears: 2, YieldPct: 4.00},
	}}

	got, err := c.YieldAt(3.5)
	if err != nil {
		t.Fatalf("YieldAt: %v", err)
	}
	if math.Abs(got-4.05) > 1e-12 {
		t.Fatalf("YieldAt(3.5) = %v, want 4.05 after sorting on entry", got)
	}
	// The caller's slice is left untouched.
	if c.Points[0].TenorYears != 10 {
		t.Fatal("YieldAt must not mutate the caller's points")
	}
}

func TestTenorToYears(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"1W", 7.0 / 365.0},
		{"3M", 0.25},
		{"18M", 1.5},
		{"10Y", 10},
		{"91D", 91.0 / 365.0},
		{"2.5", 2.5},
		{" 5y ", 5},
	}
	for _, tc := range cases {
		if got := curve.TenorToYears(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("TenorToYears(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
