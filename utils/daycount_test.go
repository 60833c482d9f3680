package utils_test

import (
	"math"
	"testing"
	"time"

	"github.com/meridianfi/bondlib/utils"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDiscountYears(t *testing.T) {
	t.Parallel()

	got := utils.DiscountYears(d(2025, 6, 9), d(2030, 6, 9))
	want := 1826.0 / 365.25
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("DiscountYears = %v, want %v", got, want)
	}
}

func TestYearFraction_Conventions(t *testing.T) {
	t.Parallel()

	start, end := d(2025, 1, 15), d(2025, 7, 15)
	cases := []struct {
		convention string
		want       float64
	}{
		{"ACT/360", 181.0 / 360.0},
		{"ACT/365F", 181.0 / 365.0},
		{"30/360", 180.0 / 360.0},
		{"30E/360", 180.0 / 360.0},
		{"ACT/ACT", 181.0 / 365.0}, // default branch
	}
	for _, tc := range cases {
		if got := utils.YearFraction(start, end, tc.convention); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("YearFraction(%s) = %v, want %v", tc.convention, got, tc.want)
		}
	}
}

func TestYearFraction_ThirtyEClampsEndDay(t *testing.T) {
	t.Parallel()

	// Jan 15 -> Jul 31: the US rule keeps D2 at 31 because D1 is not 30,
	// while the European rule clamps it unconditionally.
	start, end := d(2025, 1, 15), d(2025, 7, 31)

	if got := utils.YearFraction(start, end, "30/360"); math.Abs(got-196.0/360.0) > 1e-12 {
		t.Fatalf("30/360 = %v, want %v", got, 196.0/360.0)
	}
	if got := utils.YearFraction(start, end, "30E/360"); math.Abs(got-195.0/360.0) > 1e-12 {
		t.Fatalf("30E/360 = %v, want %v", got, 195.0/360.0)
	}
}

func TestAccrualFraction_Thirty360EndOfMonth(t *testing.T) {
	t.Parallel()

	// Period Jan 31 -> Jul 31. Under 30/360 D1 clamps to 30 and the final
	// 31st rolls to 30: a 180-day period.
	last, next := d(2025, 1, 31), d(2025, 7, 31)

	// Mar 15 settlement: 45/180 elapsed.
	got := utils.AccrualFraction(last, d(2025, 3, 15), next, "30/360")
	if want := 45.0 / 180.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("fraction = %v, want %v", got, want)
	}

	// May 31 settlement: D2=31 rolls to 30 -> 120/180.
	got = utils.AccrualFraction(last, d(2025, 5, 31), next, "30/360")
	if want := 120.0 / 180.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("fraction at month end = %v, want %v", got, want)
	}
}

func TestAccrualFraction_Boundaries(t *testing.T) {
	t.Parallel()

	last, next := d(2025, 6, 9), d(2025, 12, 9)

	if got := utils.AccrualFraction(last, last, next, "ACT/ACT"); got != 0 {
		t.Fatalf("fraction at period start = %v, want 0", got)
	}
	if got := utils.AccrualFraction(last, next, next, "ACT/ACT"); got != 1 {
		t.Fatalf("fraction at period end = %v, want 1", got)
	}

	// Degenerate period.
	if got := utils.AccrualFraction(last, last, last, "ACT/ACT"); got != 0 {
		t.Fatalf("degenerate period fraction = %v, want 0", got)
	}
}

func TestAccrualFraction_ActualUsesCalendarDays(t *testing.T) {
	t.Parallel()

	last, next := d(2025, 1, 31), d(2025, 7, 31)
	got := utils.AccrualFraction(last, d(2025, 3, 15), next, "ACT/365F")
	if want := 43.0 / 181.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("fraction = %v, want %v", got, want)
	}
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	if got := utils.RoundTo(3.14159, 2); got != 3.14 {
		t.Fatalf("RoundTo = %v, want 3.14", got)
	}
	if got := utils.RoundTo(2.675, 2); got != 2.68 && got != 2.67 {
		t.Fatalf("RoundTo(2.675, 2) = %v", got)
	}
}

func TestSortDates(t *testing.T) {
	t.Parallel()

	dates := []time.Time{d(2027, 1, 1), d(2025, 1, 1), d(2026, 1, 1)}
	utils.SortDates(dates)
	for i := 1; i < len(dates); i++ {
		if dates[i].Before(dates[i-1]) {
			t.Fatalf("dates not sorted: %v", dates)
		}
	}
}
