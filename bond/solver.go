package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meridianfi/bondlib/utils"
)

const (
	solveTolerance  = 1e-10
	solveMaxIter    = 100
	derivativeFloor = 1e-10

	// Yields outside [-50%, +1000%] are economically meaningless and
	// indicate divergence rather than a price to honour.
	yieldFloor   = -0.5
	yieldCeiling = 10.0
)

// bracketCandidates are scanned pairwise for a sign change when the default
// [yieldFloor, yieldCeiling] bracket does not straddle the root.
var bracketCandidates = []float64{-0.99, -0.5, -0.2, 0, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10}

// solveResult is the tagged outcome of a single algorithm attempt.
// ok means the attempt produced a usable yield; converged means it met the
// strict tolerance (bisection can be ok without converging).
type solveResult struct {
	yield      float64
	iterations int
	residual   float64
	ok         bool
	converged  bool
	reason     string
}

func failed(reason string) solveResult {
	return solveResult{reason: reason}
}

// solveYield finds the yield whose present value reproduces target, trying
// Newton-Raphson, then Brent, then bisection. Per-algorithm failures are
// swallowed; only an unbracketable root surfaces as an error.
func solveYield(cfs []Cashflow, target float64, settlement time.Time) (float64, SolverInfo, error) {
	attempts := []struct {
		name string
		run  func([]Cashflow, float64, time.Time) solveResult
	}{
		{"newton-raphson", newtonRaphson},
		{"brent", brent},
		{"bisection", bisect},
	}

	for _, a := range attempts {
		res := a.run(cfs, target, settlement)
		if !res.ok {
			continue
		}
		return res.yield, SolverInfo{
			Algorithm:  a.name,
			Iterations: res.iterations,
			Residual:   res.residual,
			Converged:  res.converged,
		}, nil
	}

	// Bisection only fails when no bracket exists anywhere.
	return 0, SolverInfo{}, wrapError(ErrUnboundedRoot,
		fmt.Errorf("target price %.6f not attainable for yields in [%g, %g]", target, yieldFloor, yieldCeiling))
}

// pvAndWeightedTime returns Σ PV_i and Σ PV_i·t_i over the future flows.
// The weighted sum doubles as the (negated) approximate price derivative:
// dP/dy ≈ −Σ PV_i·t_i.
func pvAndWeightedTime(cfs []Cashflow, yield float64, settlement time.Time) (float64, float64) {
	var pv, weighted float64
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		t := utils.DiscountYears(settlement, cf.Date)
		dcf := cf.Amount() / math.Pow(1.0+yield, t)
		pv += dcf
		weighted += dcf * t
	}
	return pv, weighted
}

// newtonRaphson iterates a duration-based Newton step from a closed-form
// initial guess. Steps are dampened to half the current yield's magnitude
// and the iterate is clamped to [yieldFloor, yieldCeiling] to keep steep
// curvature from throwing the search out of range.
func newtonRaphson(cfs []Cashflow, target float64, settlement time.Time) solveResult {
	var total, weightedYears float64
	for _, cf := range cfs {
		amt := cf.Amount()
		total += amt
		weightedYears += amt * utils.DiscountYears(settlement, cf.Date)
	}
	if total <= 0 || target <= 0 || weightedYears <= 0 {
		return failed("degenerate cash flows or target")
	}

	// Annualized money-multiple guess: (ΣCF / P)^(1/T̄) − 1.
	avgYears := weightedYears / total
	y := clamp(math.Pow(total/target, 1.0/avgYears)-1.0, -0.5, 0.5)

	for iter := 1; iter <= solveMaxIter; iter++ {
		pv, weightedPV := pvAndWeightedTime(cfs, y, settlement)
		f := pv - target
		if math.Abs(f) < solveTolerance {
			return solveResult{yield: y, iterations: iter, residual: f, ok: true, converged: true}
		}

		deriv := -weightedPV
		if math.Abs(deriv) < derivativeFloor {
			return failed(fmt.Sprintf("derivative too small at iter %d", iter))
		}

		adj := f / deriv
		if limit := math.Abs(y) / 2; limit > 0 && math.Abs(adj) > limit {
			adj = math.Copysign(limit, adj)
		}
		y = clamp(y-adj, yieldFloor, yieldCeiling)
	}

	return failed("did not converge")
}

// brent runs Brent's method: inverse-quadratic or secant steps while they
// stay inside the bracket and make progress, bisection otherwise.
func brent(cfs []Cashflow, target float64, settlement time.Time) solveResult {
	f := func(y float64) float64 {
		return PresentValue(cfs, y, settlement) - target
	}

	a, b, fa, fb, ok := bracketRoot(f)
	if !ok {
		return failed("no sign change across default bracket or candidate yields")
	}

	c, fc := a, fa
	d := b - a
	e := d

	for iter := 1; iter <= solveMaxIter; iter++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		const machEps = 2.220446049250313e-16
		tol1 := 2*machEps*math.Abs(b) + 1e-14
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || math.Abs(fb) < solveTolerance {
			return solveResult{yield: b, iterations: iter, residual: fb, ok: true, converged: true}
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// Attempt secant (a == c) or inverse quadratic interpolation.
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return failed("did not converge")
}

// bisect is the terminal fallback: once a bracket exists it always returns
// a yield. If the iteration budget runs out before the strict tolerance is
// met, the final midpoint is returned with converged=false so callers can
// treat it as a warning rather than a failure.
func bisect(cfs []Cashflow, target float64, settlement time.Time) solveResult {
	f := func(y float64) float64 {
		return PresentValue(cfs, y, settlement) - target
	}

	lo, hi, flo, _, ok := bracketRoot(f)
	if !ok {
		return failed("no sign change across default bracket or candidate yields")
	}

	var mid, fmid float64
	for iter := 1; iter <= solveMaxIter; iter++ {
		mid = 0.5 * (lo + hi)
		fmid = f(mid)
		if math.Abs(fmid) < solveTolerance {
			return solveResult{yield: mid, iterations: iter, residual: fmid, ok: true, converged: true}
		}
		if (flo > 0) == (fmid > 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}

	return solveResult{yield: mid, iterations: solveMaxIter, residual: fmid, ok: true, converged: false}
}

// bracketRoot returns an interval with a sign change: first the default
// [yieldFloor, yieldCeiling], then adjacent pairs of the fixed candidate
// yields.
func bracketRoot(f func(float64) float64) (a, b, fa, fb float64, ok bool) {
	a, b = yieldFloor, yieldCeiling
	fa, fb = f(a), f(b)
	if signChange(fa, fb) {
		return a, b, fa, fb, true
	}

	for i := 0; i+1 < len(bracketCandidates); i++ {
		lo, hi := bracketCandidates[i], bracketCandidates[i+1]
		flo, fhi := f(lo), f(hi)
		if signChange(flo, fhi) {
			return lo, hi, flo, fhi, true
		}
	}
	return 0, 0, 0, 0, false
}

func signChange(fa, fb float64) bool {
	return (fa <= 0 && fb >= 0) || (fa >= 0 && fb <= 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
