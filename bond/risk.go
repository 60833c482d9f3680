package bond

import (
	"math"
	"time"

	"github.com/meridianfi/bondlib/utils"
)

// basisPoint is the parallel shock used for effective duration.
const basisPoint = 0.0001

// computeMetrics fills the yield-derived risk fields of res from the future
// cash flows at the solved (or supplied) yield.
func computeMetrics(res *Result, future []Cashflow, yield float64, settlement time.Time) {
	res.MacaulayDuration = MacaulayDuration(future, yield, settlement)
	res.ModifiedDuration = res.MacaulayDuration / (1.0 + yield)
	res.EffectiveDuration = EffectiveDuration(future, yield, res.DirtyPrice, settlement)
	res.Convexity = Convexity(future, yield, settlement)
	res.DollarDuration = res.ModifiedDuration * res.DirtyPrice * basisPoint
	res.AverageLife = AverageLife(future, settlement)
	res.CurrentYield = CurrentYield(future, settlement, res.CleanPrice)
	res.TotalFutureCashflows = totalAmount(future)
	res.DaysToNextCashflow = DaysToNextCashflow(future, settlement)
}

// MacaulayDuration is the present-value-weighted average time to cash flow,
// in years from settlement.
func MacaulayDuration(cfs []Cashflow, yield float64, settlement time.Time) float64 {
	pv, weighted := pvAndWeightedTime(cfs, yield, settlement)
	if pv == 0 {
		return 0
	}
	return weighted / pv
}

// EffectiveDuration shocks the yield by ±1bp and measures the price
// response: (PV(y−1bp) − PV(y+1bp)) / (2·price·1bp). For option-free
// schedules it tracks modified duration closely; the agreement is asserted
// in tests because a sign error here is silent otherwise.
func EffectiveDuration(cfs []Cashflow, yield, price float64, settlement time.Time) float64 {
	if price == 0 {
		return 0
	}
	down := PresentValue(cfs, yield-basisPoint, settlement)
	up := PresentValue(cfs, yield+basisPoint, settlement)
	return (down - up) / (2.0 * price * basisPoint)
}

// Convexity is the standard second-derivative approximation:
// Σ PV_i·t_i·(t_i+1) / (1+y)², normalized by Σ PV_i.
func Convexity(cfs []Cashflow, yield float64, settlement time.Time) float64 {
	var pv, weighted float64
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		t := utils.DiscountYears(settlement, cf.Date)
		dcf := cf.Amount() / math.Pow(1.0+yield, t)
		pv += dcf
		weighted += dcf * t * (t + 1.0)
	}
	if pv == 0 {
		return 0
	}
	onePlusY := 1.0 + yield
	return weighted / (onePlusY * onePlusY) / pv
}

// AverageLife is the principal-weighted average time to repayment. Unlike
// duration it ignores coupon-only flows and does not discount.
func AverageLife(cfs []Cashflow, settlement time.Time) float64 {
	var principal, weighted float64
	for _, cf := range cfs {
		if !cf.Date.After(settlement) || cf.Principal <= 0 {
			continue
		}
		t := utils.DiscountYears(settlement, cf.Date)
		principal += cf.Principal
		weighted += cf.Principal * t
	}
	if principal == 0 {
		return 0
	}
	return weighted / principal
}

// CurrentYield is the coupon income falling due within the next 12 months
// divided by the clean price.
func CurrentYield(cfs []Cashflow, settlement time.Time, cleanPrice float64) float64 {
	if cleanPrice == 0 {
		return 0
	}
	horizon := settlement.AddDate(1, 0, 0)
	var coupons float64
	for _, cf := range cfs {
		if !cf.Date.After(settlement) || cf.Date.After(horizon) {
			continue
		}
		coupons += cf.Coupon
	}
	return coupons / cleanPrice
}

// DaysToNextCashflow returns calendar days from settlement to the first
// future flow of any type, or 0 when none remain.
func DaysToNextCashflow(cfs []Cashflow, settlement time.Time) int {
	for _, cf := range cfs {
		if cf.Date.After(settlement) {
			return int(utils.Days(settlement, cf.Date))
		}
	}
	return 0
}

func totalAmount(cfs []Cashflow) float64 {
	var total float64
	for _, cf := range cfs {
		total += cf.Amount()
	}
	return total
}
