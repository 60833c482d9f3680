package bonds

import (
	"time"

	"github.com/meridianfi/bondlib/bond"
)

// CashflowCents mirrors the Bloomberg-style cashflow feed where coupon/principal
// are stored as integer minor units (e.g., cents for USD).
type CashflowCents struct {
	Date           time.Time
	CouponCents    int64
	PrincipalCents int64
}

func (c CashflowCents) ToCashflow() bond.Cashflow {
	return bond.Cashflow{
		Date:      c.Date,
		Coupon:    float64(c.CouponCents) / 100.0,
		Principal: float64(c.PrincipalCents) / 100.0,
	}
}

// ToCashflows converts a feed row set into engine cash flows, filling in the
// running Remaining principal from the total principal repaid across the
// schedule. Rows must already be ordered ascending by date.
func ToCashflows(in []CashflowCents) []bond.Cashflow {
	var totalPrincipal int64
	for _, cf := range in {
		totalPrincipal += cf.PrincipalCents
	}

	out := make([]bond.Cashflow, 0, len(in))
	outstanding := totalPrincipal
	for _, cf := range in {
		converted := cf.ToCashflow()
		outstanding -= cf.PrincipalCents
		converted.Remaining = float64(outstanding) / 100.0
		out = append(out, converted)
	}
	return out
}
