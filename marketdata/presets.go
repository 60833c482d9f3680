package marketdata

import (
	"time"

	"github.com/meridianfi/bondlib/curve"
)

// UST is the curve name used for the bundled US Treasury snapshots.
const UST = "UST"

// USTreasury20250609 is the bundled benchmark snapshot used by the test
// fixtures and the CLI's builtin curve source.
var USTreasury20250609 = curve.New(
	time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
	[]curve.Point{
		{TenorYears: 0.25, YieldPct: 4.35},
		{TenorYears: 0.5, YieldPct: 4.30},
		{TenorYears: 1, YieldPct: 4.10},
		{TenorYears: 2, YieldPct: 4.00},
		{TenorYears: 3, YieldPct: 4.00},
		{TenorYears: 5, YieldPct: 4.10},
		{TenorYears: 7, YieldPct: 4.20},
		{TenorYears: 10, YieldPct: 4.40},
		{TenorYears: 20, YieldPct: 4.85},
		{TenorYears: 30, YieldPct: 4.90},
	},
)

// DefaultFeed builds a map-backed provider preloaded with the bundled
// snapshots, so callers can price without wiring a database.
func DefaultFeed() *MapFeed {
	return NewMapFeed().Add(UST, USTreasury20250609)
}
