package utils

import (
	"time"
)

// DiscountYears returns the time to a cash flow in years on a fixed
// ACT/365.25 basis. Discounting always uses this basis, independent of the
// bond's declared day count, which only governs accrual (see AccrualFraction).
func DiscountYears(settlement, flowDate time.Time) float64 {
	return Days(settlement, flowDate) / 365.25
}

// YearFraction computes the year fraction between two dates using the
// specified day count convention.
// Supported conventions: ACT/360, ACT/365F, 30E/360, 30/360
func YearFraction(start, end time.Time, convention string) float64 {
	switch convention {
	case "ACT/360":
		return Days(start, end) / 360.0
	case "ACT/365F":
		return Days(start, end) / 365.0
	case "30E/360":
		return float64(days30360(start, end, true)) / 360.0
	case "30/360":
		return float64(days30360(start, end, false)) / 360.0
	default:
		return Days(start, end) / 365.0
	}
}

// AccrualFraction returns the elapsed fraction of the coupon period
// [lastCoupon, nextCoupon] as of settlement, per the declared convention.
//
// 30/360 uses the 30/360 day-count rule (day-of-month clamped to 30 with the
// end-of-month roll for the 31st); every other convention (ACT/ACT, ACT/360,
// ACT/365F, ...) uses calendar-day counts for both numerator and denominator,
// so the period length cancels the basis.
func AccrualFraction(lastCoupon, settlement, nextCoupon time.Time, convention string) float64 {
	var elapsed, period float64
	switch convention {
	case "30E/360":
		elapsed = float64(days30360(lastCoupon, settlement, true))
		period = float64(days30360(lastCoupon, nextCoupon, true))
	case "30/360":
		elapsed = float64(days30360(lastCoupon, settlement, false))
		period = float64(days30360(lastCoupon, nextCoupon, false))
	default:
		elapsed = Days(lastCoupon, settlement)
		period = Days(lastCoupon, nextCoupon)
	}
	if period <= 0 {
		return 0
	}
	f := elapsed / period
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// days30360 counts days from start to end on a 30/360 basis. D1 at 31 is
// always clamped to 30. Under the US (bond basis) rule D2 rolls from 31 to
// 30 only when D1 is already at 30; the European rule clamps D2
// unconditionally.
func days30360(start, end time.Time, european bool) int {
	d1 := start.Day()
	if d1 == 31 {
		d1 = 30
	}
	d2 := end.Day()
	if d2 == 31 && (european || d1 == 30) {
		d2 = 30
	}
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return 360*(y2-y1) + 30*(m2-m1) + (d2 - d1)
}
