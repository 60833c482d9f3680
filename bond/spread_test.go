package bond_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meridianfi/bondlib/bond"
	"github.com/meridianfi/bondlib/curve"
)

func TestSpreads_FlatCurveAtOwnYield(t *testing.T) {
	t.Parallel()

	b := semiBullet(date(2025, 12, 9), 25, 1000, 10, "30/360")
	settlement := date(2025, 6, 9)
	const y = 0.05

	prices, err := bond.FromYield(b, y, settlement)
	if err != nil {
		t.Fatalf("FromYield: %v", err)
	}

	flat := curve.Flat(settlement, y*100, 0.25, 1, 2, 5, 10, 30)
	dirty := prices.DirtyPrice
	res, err := bond.FromPrice(b, bond.Quote{
		SettlementDate: settlement,
		DirtyPrice:     &dirty,
		Curve:          &flat,
	})
	if err != nil {
		t.Fatalf("FromPrice: %v", err)
	}

	if res.NominalSpreadBP == nil || res.ZSpreadBP == nil {
		t.Fatal("expected spreads when a curve is supplied")
	}
	// A bond yielding exactly the flat benchmark rate carries no spread.
	if math.Abs(*res.NominalSpreadBP) > 0.1 {
		t.Fatalf("nominal spread = %.4f bp, want ~0", *res.NominalSpreadBP)
	}
	if math.Abs(*res.ZSpreadBP) > 5.0 {
		t.Fatalf("z-spread = %.4f bp, want ~0", *res.ZSpreadBP)
	}
}

func TestSpreads_DiscountBondTradesWide(t *testing.T) {
	t.Parallel()

	b := semiBullet(date(2025, 12, 9), 25, 1000, 10, "30/360")
	settlement := date(2025, 6, 9)

	bench := curve.Flat(settlement, 4.0, 0.25, 1, 2, 5, 10, 30)
	px := 800.0
	res, err := bond.FromPrice(b, bond.Quote{
		SettlementDate: settlement,
		DirtyPrice:     &px,
		Curve:          &bench,
	})
	if err != nil {
		t.Fatalf("FromPrice: %v", err)
	}

	if *res.NominalSpreadBP <= 0 {
		t.Fatalf("nominal spread = %.2f bp, want > 0 for a deep discount", *res.NominalSpreadBP)
	}
	wantNominal := (res.YieldToMaturity - 0.04) * 1e4
	if math.Abs(*res.NominalSpreadBP-wantNominal) > 1e-6 {
		t.Fatalf("nominal spread = %.6f bp, want %.6f by definition", *res.NominalSpreadBP, wantNominal)
	}
	// On a flat curve the Z-spread and nominal spread coincide up to the
	// bisection's price tolerance.
	if math.Abs(*res.ZSpreadBP-*res.NominalSpreadBP) > 10.0 {
		t.Fatalf("z-spread %.2f bp vs nominal %.2f bp, want within 10bp on a flat curve",
			*res.ZSpreadBP, *res.NominalSpreadBP)
	}
}

func TestZSpread_RepricesToTarget(t *testing.T) {
	t.Parallel()

	b := semiBullet(date(2025, 12, 9), 25, 1000, 10, "30/360")
	settlement := date(2025, 6, 9)

	bench := curve.New(settlement, []curve.Point{
		{TenorYears: 0.5, YieldPct: 4.3},
		{TenorYears: 1, YieldPct: 4.1},
		{TenorYears: 2, YieldPct: 4.0},
		{TenorYears: 5, YieldPct: 4.1},
		{TenorYears: 10, YieldPct: 4.4},
	})

	const dirty = 850.0
	zBP, err := bond.ZSpreadBP(b.Cashflows, bench, dirty, settlement)
	if err != nil {
		t.Fatalf("ZSpreadBP: %v", err)
	}

	// Discounting at curve+spread must reproduce the target dirty price
	// within the documented cent tolerance.
	spread := zBP / 1e4
	pv := 0.0
	for _, cf := range b.Cashflows {
		if !cf.Date.After(settlement) {
			continue
		}
		tYears := cf.Date.Sub(settlement).Hours() / 24 / 365.25
		benchPct, err := bench.YieldAt(tYears)
		if err != nil {
			t.Fatalf("YieldAt: %v", err)
		}
		pv += cf.Amount() / math.Pow(1+benchPct/100+spread, tYears)
	}
	if math.Abs(pv-dirty) > 0.011 {
		t.Fatalf("reprice at z-spread = %.6f, want %.2f within $0.01", pv, dirty)
	}
}

func TestSpreads_EmptyCurve(t *testing.T) {
	t.Parallel()

	b := semiBullet(date(2025, 12, 9), 25, 1000, 10, "30/360")
	settlement := date(2025, 6, 9)

	empty := curve.Benchmark{AsOf: settlement}
	px := 900.0
	_, err := bond.FromPrice(b, bond.Quote{
		SettlementDate: settlement,
		DirtyPrice:     &px,
		Curve:          &empty,
	})
	if !errors.Is(err, bond.ErrEmptyCurve) {
		t.Fatalf("error = %v, want CURVE_EMPTY", err)
	}
}
