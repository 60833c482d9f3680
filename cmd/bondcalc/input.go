package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meridianfi/bondlib/bond"
	"github.com/meridianfi/bondlib/calendar"
	"github.com/meridianfi/bondlib/config"
	"github.com/meridianfi/bondlib/instruments/bonds"
	"github.com/meridianfi/bondlib/logging"
	"github.com/meridianfi/bondlib/marketdata"
)

// bondJSON is the wire form of a bond: amounts in integer minor units
// (cents), dates as YYYY-MM-DD, schedule pre-expanded by the caller.
type bondJSON struct {
	FaceValue         float64        `json:"face_value"`
	IssueDate         string         `json:"issue_date,omitempty"`
	MaturityDate      string         `json:"maturity_date,omitempty"`
	SettlementLagDays int            `json:"settlement_lag_days,omitempty"`
	DayCount          string         `json:"day_count"`
	Cashflows         []cashflowJSON `json:"cashflows"`
}

type cashflowJSON struct {
	Date      string `json:"date"`
	Coupon    int64  `json:"coupon"`
	Principal int64  `json:"principal"`
}

func (b bondJSON) toBond() (bond.Bond, error) {
	if len(b.Cashflows) == 0 {
		return bond.Bond{}, fmt.Errorf("bond: cashflows are required")
	}

	rows := make([]bonds.CashflowCents, 0, len(b.Cashflows))
	for _, cf := range b.Cashflows {
		d, err := time.Parse("2006-01-02", cf.Date)
		if err != nil {
			return bond.Bond{}, fmt.Errorf("bond: cashflow date %q: %w", cf.Date, err)
		}
		rows = append(rows, bonds.CashflowCents{
			Date:           d,
			CouponCents:    cf.Coupon,
			PrincipalCents: cf.Principal,
		})
	}

	out := bond.Bond{
		FaceValue:         b.FaceValue,
		SettlementLagDays: b.SettlementLagDays,
		DayCount:          b.DayCount,
		Cashflows:         bonds.ToCashflows(rows),
	}
	if b.IssueDate != "" {
		d, err := time.Parse("2006-01-02", b.IssueDate)
		if err != nil {
			return bond.Bond{}, fmt.Errorf("bond: issue_date: %w", err)
		}
		out.IssueDate = d
	}
	if b.MaturityDate != "" {
		d, err := time.Parse("2006-01-02", b.MaturityDate)
		if err != nil {
			return bond.Bond{}, fmt.Errorf("bond: maturity_date: %w", err)
		}
		out.MaturityDate = d
	} else {
		out.MaturityDate = out.Cashflows[len(out.Cashflows)-1].Date
	}
	return out, nil
}

// resolveSettlement picks the task's settlement date. An explicit
// settlement_date wins; otherwise trade_date is rolled forward by the
// bond's settlement lag in business days.
func resolveSettlement(b bond.Bond, settlementDate, tradeDate string) (time.Time, error) {
	if settlementDate != "" {
		d, err := time.Parse("2006-01-02", settlementDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("settlement_date: %w", err)
		}
		return d, nil
	}
	if tradeDate == "" {
		return time.Time{}, fmt.Errorf("settlement_date or trade_date is required")
	}
	trade, err := time.Parse("2006-01-02", tradeDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("trade_date: %w", err)
	}
	return b.SettlementFrom(calendar.USD, trade), nil
}

// readInput loads a JSON document from path, or stdin when path is empty.
func readInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodeTasks parses raw as either a single task object or an array of
// tasks, reporting which form it was.
func decodeTasks[T any](raw []byte) ([]T, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var tasks []T
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, false, err
		}
		return tasks, true, nil
	}
	var task T
	if err := json.Unmarshal(trimmed, &task); err != nil {
		return nil, false, err
	}
	return []T{task}, false, nil
}

// printOutputs marshals a single object or an array, mirroring the input form.
func printOutputs[T any](outputs []T, isArray bool) {
	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
		return
	}
	b, _ := json.Marshal(outputs[0])
	fmt.Println(string(b))
}

// setup loads config and builds the logger shared by all subcommands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Development || debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// curveProvider resolves the configured benchmark-curve source. The
// returned closer is a no-op for the builtin feed.
func curveProvider(cfg *config.Config, log *zap.Logger) (marketdata.CurveProvider, func() error, error) {
	switch cfg.Curve.Source {
	case "postgres":
		p, err := marketdata.NewPostgresProvider(cfg.Curve.DSN, log)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return marketdata.DefaultFeed(), func() error { return nil }, nil
	}
}
