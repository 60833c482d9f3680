package bond

import (
	"time"

	"github.com/meridianfi/bondlib/calendar"
	"github.com/meridianfi/bondlib/curve"
)

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in currency units (e.g., USD), not price-per-100. Remaining is
// the principal outstanding after this flow pays; it is non-increasing along
// the schedule and 0 on the final flow of a fully amortizing or bullet bond.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
	Remaining float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Bond is the analytics view of a bond: an already-expanded cash-flow
// schedule plus the terms the engine needs. The schedule comes from an
// external generator (amortization, calls and step coupons are expanded
// before the engine ever sees them) and is never mutated here.
type Bond struct {
	FaceValue         float64
	IssueDate         time.Time
	MaturityDate      time.Time
	SettlementLagDays int
	// DayCount is the declared accrual convention: "30/360", "ACT/ACT",
	// "ACT/360" or "ACT/365F". It governs accrued interest only;
	// discounting is always ACT/365.25 (see utils.DiscountYears).
	DayCount string
	// Cashflows must be strictly ascending by date.
	Cashflows []Cashflow
}

// SettlementFrom resolves a trade date into the settlement date using the
// bond's settlement lag on the given business-day calendar.
func (b Bond) SettlementFrom(cal calendar.CalendarID, tradeDate time.Time) time.Time {
	if b.SettlementLagDays <= 0 {
		return tradeDate
	}
	return calendar.AddBusinessDays(cal, tradeDate, b.SettlementLagDays)
}

// Quote is the call-scoped market input. Exactly one of CleanPrice,
// DirtyPrice or Yield must be set. Curve is optional; when present the
// result carries nominal and Z-spread.
type Quote struct {
	SettlementDate time.Time
	CleanPrice     *float64
	DirtyPrice     *float64
	// Yield is a decimal (0.05 = 5%).
	Yield *float64
	Curve *curve.Benchmark
}

// SolverInfo reports which root-finding algorithm produced the yield.
type SolverInfo struct {
	Algorithm  string
	Iterations int
	Residual   float64
	// Converged is false only when the terminal bisection fallback
	// exhausted its budget and returned a best-effort midpoint. Callers
	// decide whether to accept or reject such a result.
	Converged bool
}

// PriceResult is the output of FromYield.
type PriceResult struct {
	CleanPrice      float64
	DirtyPrice      float64
	AccruedInterest float64
}

// Result is the full analytics output of FromPrice. It is produced fresh on
// every call; the engine caches nothing.
type Result struct {
	CleanPrice      float64
	DirtyPrice      float64
	AccruedInterest float64

	// YieldToMaturity is a decimal (0.05 = 5%).
	YieldToMaturity float64
	CurrentYield    float64

	MacaulayDuration  float64
	ModifiedDuration  float64
	EffectiveDuration float64
	Convexity         float64
	// DollarDuration is the DV01: price change for a 1bp yield move.
	DollarDuration float64
	AverageLife    float64

	TotalFutureCashflows float64
	DaysToNextCashflow   int

	// Spreads are set only when the quote carried a benchmark curve.
	NominalSpreadBP *float64
	ZSpreadBP       *float64

	Solver SolverInfo
}
