package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianfi/bondlib/curve"
	"github.com/meridianfi/bondlib/marketdata"
	"github.com/meridianfi/bondlib/scenario"
)

var scenarioInputPath string

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Price a bond across a grid of prices or yield shocks",
	Long: `Reads one JSON scenario with a bond schedule and either a grid of dirty
prices (dirty_prices) or a base yield with parallel shocks in basis points
(base_yield + shocks_bp), runs each point independently across a worker
pool and prints the per-point results. Scenario calls are pure, so both
modes are embarrassingly parallel.`,
	RunE: runScenario,
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioInputPath, "input", "", "JSON input path (reads stdin if omitted)")
	rootCmd.AddCommand(scenarioCmd)
}

type scenarioTask struct {
	TaskID         string    `json:"task_id,omitempty"`
	SettlementDate string    `json:"settlement_date,omitempty"`
	TradeDate      string    `json:"trade_date,omitempty"`
	DirtyPrices    []float64 `json:"dirty_prices,omitempty"`
	BaseYield      *float64  `json:"base_yield,omitempty"`
	ShocksBP       []float64 `json:"shocks_bp,omitempty"`
	UseCurve       bool      `json:"use_curve,omitempty"`
	Bond           bondJSON  `json:"bond"`
}

type scenarioOutput struct {
	TaskID   string           `json:"task_id,omitempty"`
	Outcomes []scenarioResult `json:"outcomes"`
}

type scenarioResult struct {
	Label              string   `json:"label"`
	ShockBP            *float64 `json:"shock_bp,omitempty"`
	DirtyPrice         float64  `json:"dirty_price,omitempty"`
	CleanPrice         float64  `json:"clean_price,omitempty"`
	YieldToMaturityPct float64  `json:"yield_to_maturity_pct,omitempty"`
	ModifiedDuration   float64  `json:"modified_duration,omitempty"`
	Convexity          float64  `json:"convexity,omitempty"`
	SolverAlgorithm    string   `json:"solver_algorithm,omitempty"`
	Error              string   `json:"error,omitempty"`
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	raw, err := readInput(scenarioInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	tasks, isArray, err := decodeTasks[scenarioTask](raw)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	provider, closeProvider, err := curveProvider(cfg, log)
	if err != nil {
		return err
	}
	defer closeProvider()

	hadError := false
	outputs := make([]scenarioOutput, 0, len(tasks))
	for _, task := range tasks {
		out, pointFailed, err := processScenario(cmd.Context(), cfg.Curve.Name, provider, task, cfg.Scenario.Workers, log)
		if err != nil {
			return err
		}
		if pointFailed {
			hadError = true
		}
		outputs = append(outputs, out)
	}

	printOutputs(outputs, isArray)

	if hadError {
		return fmt.Errorf("one or more scenario points failed")
	}
	return nil
}

// processScenario runs one scenario task in either price-grid or
// yield-shock mode. The bool reports whether any point inside the task
// failed; the error is reserved for malformed tasks.
func processScenario(ctx context.Context, curveName string, provider marketdata.CurveProvider, task scenarioTask, workers int, log *zap.Logger) (scenarioOutput, bool, error) {
	b, err := task.Bond.toBond()
	if err != nil {
		return scenarioOutput{}, false, err
	}
	settlement, err := resolveSettlement(b, task.SettlementDate, task.TradeDate)
	if err != nil {
		return scenarioOutput{}, false, err
	}
	if (len(task.DirtyPrices) == 0) == (len(task.ShocksBP) == 0) {
		return scenarioOutput{}, false, fmt.Errorf("exactly one of dirty_prices and shocks_bp is required")
	}

	out := scenarioOutput{TaskID: task.TaskID}
	hadError := false

	if len(task.ShocksBP) > 0 {
		if task.BaseYield == nil {
			return scenarioOutput{}, false, fmt.Errorf("base_yield is required with shocks_bp")
		}
		outcomes := scenario.Shocks(b, *task.BaseYield, task.ShocksBP, settlement, workers)
		for _, oc := range outcomes {
			bp := oc.ShockBP
			if oc.Err != nil {
				hadError = true
				log.Warn("scenario shock failed",
					zap.String("task_id", task.TaskID),
					zap.Float64("shock_bp", bp),
					zap.Error(oc.Err))
				out.Outcomes = append(out.Outcomes, scenarioResult{Label: formatShock(bp), ShockBP: &bp, Error: oc.Err.Error()})
				continue
			}
			out.Outcomes = append(out.Outcomes, scenarioResult{
				Label:      formatShock(bp),
				ShockBP:    &bp,
				DirtyPrice: oc.Prices.DirtyPrice,
				CleanPrice: oc.Prices.CleanPrice,
			})
		}
		return out, hadError, nil
	}

	var bench *curve.Benchmark
	if task.UseCurve {
		c, err := provider.BenchmarkCurve(ctx, curveName, settlement)
		if err != nil {
			return scenarioOutput{}, false, fmt.Errorf("benchmark curve: %w", err)
		}
		bench = &c
	}

	grid := scenario.PriceGrid(settlement, task.DirtyPrices, bench)
	outcomes := scenario.Run(b, grid, workers)
	for _, oc := range outcomes {
		if oc.Err != nil {
			hadError = true
			log.Warn("scenario point failed",
				zap.String("task_id", task.TaskID),
				zap.String("label", oc.Label),
				zap.Error(oc.Err))
			out.Outcomes = append(out.Outcomes, scenarioResult{Label: oc.Label, Error: oc.Err.Error()})
			continue
		}
		out.Outcomes = append(out.Outcomes, scenarioResult{
			Label:              oc.Label,
			DirtyPrice:         oc.Result.DirtyPrice,
			CleanPrice:         oc.Result.CleanPrice,
			YieldToMaturityPct: oc.Result.YieldToMaturity * 100.0,
			ModifiedDuration:   oc.Result.ModifiedDuration,
			Convexity:          oc.Result.Convexity,
			SolverAlgorithm:    oc.Result.Solver.Algorithm,
		})
	}
	return out, hadError, nil
}

func formatShock(bp float64) string {
	return "shock=" + strconv.FormatFloat(bp, 'f', -1, 64) + "bp"
}
