package bond

import (
	"errors"
	"math"
	"time"

	"github.com/meridianfi/bondlib/curve"
	"github.com/meridianfi/bondlib/utils"
)

const (
	// Z-spread search range: −500bp to +2000bp.
	zSpreadFloor   = -0.05
	zSpreadCeiling = 0.20
	zSpreadMaxIter = 50
	// Convergence is accepted once the implied price is within one cent of
	// target; the final midpoint is returned regardless.
	zSpreadPriceTol = 0.01
)

// spreads computes both spread measures for FromPrice.
func spreads(future []Cashflow, bench curve.Benchmark, yield, averageLife, dirtyPrice float64, settlement time.Time) (nominalBP, zBP float64, err error) {
	nominalBP, err = NominalSpreadBP(yield, averageLife, bench)
	if err != nil {
		return 0, 0, err
	}
	zBP, err = ZSpreadBP(future, bench, dirtyPrice, settlement)
	if err != nil {
		return 0, 0, err
	}
	return nominalBP, zBP, nil
}

// NominalSpreadBP is the bond's yield minus the benchmark yield interpolated
// at the bond's average life, in basis points.
func NominalSpreadBP(yield, averageLifeYears float64, bench curve.Benchmark) (float64, error) {
	benchPct, err := bench.YieldAt(averageLifeYears)
	if err != nil {
		return 0, curveError(err)
	}
	return (yield - benchPct/100.0) * 1e4, nil
}

// ZSpreadBP solves for the constant spread which, added to the benchmark
// yield at each flow's tenor, discounts the cash flows back to the dirty
// price. Bisection over a fixed range and iteration budget: like the yield
// solver's terminal fallback, it always returns the final midpoint.
func ZSpreadBP(cfs []Cashflow, bench curve.Benchmark, dirtyPrice float64, settlement time.Time) (float64, error) {
	priceAt := func(spread float64) (float64, error) {
		pv := 0.0
		for _, cf := range cfs {
			if !cf.Date.After(settlement) {
				continue
			}
			t := utils.DiscountYears(settlement, cf.Date)
			benchPct, err := bench.YieldAt(t)
			if err != nil {
				return 0, err
			}
			rate := benchPct/100.0 + spread
			pv += cf.Amount() / math.Pow(1.0+rate, t)
		}
		return pv, nil
	}

	lo, hi := zSpreadFloor, zSpreadCeiling
	mid := 0.5 * (lo + hi)
	for iter := 0; iter < zSpreadMaxIter; iter++ {
		mid = 0.5 * (lo + hi)
		pv, err := priceAt(mid)
		if err != nil {
			return 0, curveError(err)
		}
		diff := pv - dirtyPrice
		if math.Abs(diff) < zSpreadPriceTol {
			break
		}
		// PV decreases as the spread grows.
		if diff > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid * 1e4, nil
}

func curveError(err error) error {
	if errors.Is(err, curve.ErrEmpty) {
		return wrapError(ErrEmptyCurve, err)
	}
	return err
}
