package bond

import (
	"math"
	"time"

	"github.com/meridianfi/bondlib/utils"
)

// PresentValue discounts every cash flow strictly after settlement at the
// given yield (decimal) and sums the results.
//
// Time to each flow is measured on a fixed ACT/365.25 basis regardless of
// the bond's declared day count; only accrual honours the declared
// convention. This asymmetry matches the reference fixtures.
func PresentValue(cfs []Cashflow, yield float64, settlement time.Time) float64 {
	pv := 0.0
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		t := utils.DiscountYears(settlement, cf.Date)
		pv += cf.Amount() / math.Pow(1.0+yield, t)
	}
	return pv
}

// AccruedInterest computes the coupon accrued between the last coupon date
// and settlement, per the bond's declared day-count convention.
//
// Accrued is 0 when settlement precedes the first coupon or follows the
// last: both the prior and the next coupon-bearing flow must exist.
func AccruedInterest(b Bond, settlement time.Time) float64 {
	var last, next *Cashflow
	for i := range b.Cashflows {
		cf := &b.Cashflows[i]
		if cf.Coupon <= 0 {
			continue
		}
		if !cf.Date.After(settlement) {
			last = cf
			continue
		}
		if next == nil {
			next = cf
		}
	}
	if last == nil || next == nil {
		return 0
	}

	fraction := utils.AccrualFraction(last.Date, settlement, next.Date, b.DayCount)
	return next.Coupon * fraction
}

// FromYield prices the bond at a supplied yield (decimal): dirty price is
// the present value of the future cash flows, clean is dirty less accrued.
func FromYield(b Bond, yield float64, settlement time.Time) (PriceResult, error) {
	if len(b.Cashflows) == 0 {
		return PriceResult{}, invalid("FromYield: Cashflows are required")
	}
	if !futureFlowsExist(b.Cashflows, settlement) {
		return PriceResult{}, ErrNoFutureCashflows
	}

	dirty := PresentValue(b.Cashflows, yield, settlement)
	accrued := AccruedInterest(b, settlement)
	return PriceResult{
		CleanPrice:      dirty - accrued,
		DirtyPrice:      dirty,
		AccruedInterest: accrued,
	}, nil
}

// FromPrice solves for the yield that reproduces the quoted price and
// derives the full set of risk metrics at that yield. Exactly one of
// Quote.CleanPrice and Quote.DirtyPrice must be set and positive.
//
// When the quote carries a benchmark curve, nominal and Z-spread are
// computed against it; an empty curve is an error, an absent one is not.
func FromPrice(b Bond, q Quote) (*Result, error) {
	if len(b.Cashflows) == 0 {
		return nil, invalid("FromPrice: Cashflows are required")
	}
	if q.Yield != nil {
		return nil, invalid("FromPrice: Yield must not be set; use FromYield")
	}
	if (q.CleanPrice == nil) == (q.DirtyPrice == nil) {
		return nil, invalid("FromPrice: exactly one of CleanPrice and DirtyPrice is required")
	}

	accrued := AccruedInterest(b, q.SettlementDate)

	var clean, dirty float64
	switch {
	case q.CleanPrice != nil:
		clean = *q.CleanPrice
		dirty = clean + accrued
	default:
		dirty = *q.DirtyPrice
		clean = dirty - accrued
	}
	if (q.CleanPrice != nil && clean <= 0) || (q.DirtyPrice != nil && dirty <= 0) {
		return nil, invalid("FromPrice: price must be positive")
	}

	future := futureFlows(b.Cashflows, q.SettlementDate)
	if len(future) == 0 {
		return nil, ErrNoFutureCashflows
	}

	yield, info, err := solveYield(future, dirty, q.SettlementDate)
	if err != nil {
		return nil, err
	}

	res := &Result{
		CleanPrice:      clean,
		DirtyPrice:      dirty,
		AccruedInterest: accrued,
		YieldToMaturity: yield,
		Solver:          info,
	}
	computeMetrics(res, future, yield, q.SettlementDate)

	if q.Curve != nil {
		nominal, zspread, err := spreads(future, *q.Curve, yield, res.AverageLife, dirty, q.SettlementDate)
		if err != nil {
			return nil, err
		}
		res.NominalSpreadBP = &nominal
		res.ZSpreadBP = &zspread
	}

	return res, nil
}

func futureFlows(cfs []Cashflow, settlement time.Time) []Cashflow {
	out := make([]Cashflow, 0, len(cfs))
	for _, cf := range cfs {
		if cf.Date.After(settlement) {
			out = append(out, cf)
		}
	}
	return out
}

func futureFlowsExist(cfs []Cashflow, settlement time.Time) bool {
	for _, cf := range cfs {
		if cf.Date.After(settlement) {
			return true
		}
	}
	return false
}
