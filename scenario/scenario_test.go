package scenario_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfi/bondlib/bond"
	"github.com/meridianfi/bondlib/scenario"
)

func testBond() (bond.Bond, time.Time) {
	settlement := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	first := time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC)

	cfs := make([]bond.Cashflow, 0, 10)
	for i := 0; i < 10; i++ {
		cf := bond.Cashflow{Date: first.AddDate(0, 6*i, 0), Coupon: 25, Remaining: 1000}
		if i == 9 {
			cf.Principal = 1000
			cf.Remaining = 0
		}
		cfs = append(cfs, cf)
	}
	b := bond.Bond{
		FaceValue:    1000,
		MaturityDate: cfs[9].Date,
		DayCount:     "30/360",
		Cashflows:    cfs,
	}
	return b, settlement
}

func TestRun_PriceGridMonotoneYields(t *testing.T) {
	t.Parallel()

	b, settlement := testBond()
	prices := []float64{700, 800, 900, 1000, 1100}

	tasks := scenario.PriceGrid(settlement, prices, nil)
	outcomes := scenario.Run(b, tasks, 4)
	require.Len(t, outcomes, len(prices))

	for i, oc := range outcomes {
		require.NoError(t, oc.Err, "price %v", prices[i])
		require.NotNil(t, oc.Result)
		assert.Equal(t, tasks[i].Label, oc.Label, "outcomes must preserve task order")
		assert.InDelta(t, prices[i], oc.Result.DirtyPrice, 1e-9)
	}

	// Higher price, lower yield.
	for i := 1; i < len(outcomes); i++ {
		assert.Less(t, outcomes[i].Result.YieldToMaturity, outcomes[i-1].Result.YieldToMaturity)
	}
}

func TestRun_CapturesPerTaskErrors(t *testing.T) {
	t.Parallel()

	b, settlement := testBond()
	negative := -50.0
	good := 900.0

	tasks := []scenario.Task{
		{Label: "bad", Quote: bond.Quote{SettlementDate: settlement, DirtyPrice: &negative}},
		{Label: "good", Quote: bond.Quote{SettlementDate: settlement, DirtyPrice: &good}},
	}

	outcomes := scenario.Run(b, tasks, 2)
	require.Len(t, outcomes, 2)

	assert.Error(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[0].Err, bond.ErrInvalidInput)
	assert.Nil(t, outcomes[0].Result)

	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, "good", outcomes[1].Label)
}

func TestRun_DefaultWorkerCount(t *testing.T) {
	t.Parallel()

	b, settlement := testBond()
	tasks := scenario.PriceGrid(settlement, []float64{850, 950}, nil)

	// workers <= 0 falls back to the CPU count; results are unaffected.
	outcomes := scenario.Run(b, tasks, 0)
	require.Len(t, outcomes, 2)
	for _, oc := range outcomes {
		require.NoError(t, oc.Err)
	}
}

func TestShocks_PriceYieldProfile(t *testing.T) {
	t.Parallel()

	b, settlement := testBond()
	const baseYield = 0.05

	shocks := []float64{-100, -50, 0, 50, 100}
	outcomes := scenario.Shocks(b, baseYield, shocks, settlement, 3)
	require.Len(t, outcomes, len(shocks))

	for i, oc := range outcomes {
		require.NoError(t, oc.Err, "shock %v", shocks[i])
		assert.Equal(t, shocks[i], oc.ShockBP)
	}

	// Upward yield shocks price lower.
	for i := 1; i < len(outcomes); i++ {
		assert.Less(t, outcomes[i].Prices.DirtyPrice, outcomes[i-1].Prices.DirtyPrice)
	}

	// The zero shock reprices the base yield exactly.
	base, err := bond.FromYield(b, baseYield, settlement)
	require.NoError(t, err)
	assert.InDelta(t, base.DirtyPrice, outcomes[2].Prices.DirtyPrice, 1e-12)
}
