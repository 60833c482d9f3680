package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianfi/bondlib/bond"
	"github.com/meridianfi/bondlib/marketdata"
)

var priceInputPath string

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Solve yield and risk metrics from a quoted price",
	Long: `Reads one JSON task (or an array of tasks) with a bond schedule and a
clean or dirty price, solves for the yield to maturity and prints the full
analytics result. Spreads are included when use_curve is set.`,
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringVar(&priceInputPath, "input", "", "JSON input path (reads stdin if omitted)")
	rootCmd.AddCommand(priceCmd)
}

type priceTask struct {
	TaskID string `json:"task_id,omitempty"`
	// SettlementDate is used directly when set; otherwise TradeDate is
	// rolled forward by the bond's settlement_lag_days.
	SettlementDate string   `json:"settlement_date,omitempty"`
	TradeDate      string   `json:"trade_date,omitempty"`
	CleanPrice     *float64 `json:"clean_price,omitempty"`
	DirtyPrice     *float64 `json:"dirty_price,omitempty"`
	UseCurve       bool     `json:"use_curve,omitempty"`
	Bond           bondJSON `json:"bond"`
}

type priceOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	SettlementDate  string  `json:"settlement_date,omitempty"`
	CleanPrice      float64 `json:"clean_price"`
	DirtyPrice      float64 `json:"dirty_price"`
	AccruedInterest float64 `json:"accrued_interest"`

	YieldToMaturityPct float64 `json:"yield_to_maturity_pct"`
	CurrentYieldPct    float64 `json:"current_yield_pct"`

	MacaulayDuration  float64 `json:"macaulay_duration"`
	ModifiedDuration  float64 `json:"modified_duration"`
	EffectiveDuration float64 `json:"effective_duration"`
	Convexity         float64 `json:"convexity"`
	DollarDuration    float64 `json:"dollar_duration"`
	AverageLife       float64 `json:"average_life"`

	TotalFutureCashflows float64 `json:"total_future_cashflows"`
	DaysToNextCashflow   int     `json:"days_to_next_cashflow"`

	NominalSpreadBP *float64 `json:"nominal_spread_bp,omitempty"`
	ZSpreadBP       *float64 `json:"z_spread_bp,omitempty"`

	SolverAlgorithm  string  `json:"solver_algorithm,omitempty"`
	SolverIterations int     `json:"solver_iterations,omitempty"`
	SolverResidual   float64 `json:"solver_residual,omitempty"`
	SolverConverged  bool    `json:"solver_converged,omitempty"`

	Error string `json:"error,omitempty"`
}

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	raw, err := readInput(priceInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	tasks, isArray, err := decodeTasks[priceTask](raw)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	provider, closeProvider, err := curveProvider(cfg, log)
	if err != nil {
		return err
	}
	defer closeProvider()

	hadError := false
	outputs := make([]priceOutput, 0, len(tasks))
	for _, task := range tasks {
		out, err := processPrice(cmd.Context(), cfg.Curve.Name, provider, task, log)
		if err != nil {
			hadError = true
			log.Warn("price task failed", zap.String("task_id", task.TaskID), zap.Error(err))
			outputs = append(outputs, priceOutput{TaskID: task.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	printOutputs(outputs, isArray)

	if hadError {
		return fmt.Errorf("one or more tasks failed")
	}
	return nil
}

func processPrice(ctx context.Context, curveName string, provider marketdata.CurveProvider, task priceTask, log *zap.Logger) (*priceOutput, error) {
	b, err := task.Bond.toBond()
	if err != nil {
		return nil, err
	}
	settlement, err := resolveSettlement(b, task.SettlementDate, task.TradeDate)
	if err != nil {
		return nil, err
	}

	quote := bond.Quote{
		SettlementDate: settlement,
		CleanPrice:     task.CleanPrice,
		DirtyPrice:     task.DirtyPrice,
	}
	if task.UseCurve {
		bench, err := provider.BenchmarkCurve(ctx, curveName, settlement)
		if err != nil {
			return nil, fmt.Errorf("benchmark curve: %w", err)
		}
		quote.Curve = &bench
	}

	res, err := bond.FromPrice(b, quote)
	if err != nil {
		return nil, err
	}

	log.Debug("solved yield",
		zap.String("task_id", task.TaskID),
		zap.String("algorithm", res.Solver.Algorithm),
		zap.Int("iterations", res.Solver.Iterations),
		zap.Float64("residual", res.Solver.Residual))

	return &priceOutput{
		TaskID:               task.TaskID,
		SettlementDate:       settlement.Format("2006-01-02"),
		CleanPrice:           res.CleanPrice,
		DirtyPrice:           res.DirtyPrice,
		AccruedInterest:      res.AccruedInterest,
		YieldToMaturityPct:   res.YieldToMaturity * 100.0,
		CurrentYieldPct:      res.CurrentYield * 100.0,
		MacaulayDuration:     res.MacaulayDuration,
		ModifiedDuration:     res.ModifiedDuration,
		EffectiveDuration:    res.EffectiveDuration,
		Convexity:            res.Convexity,
		DollarDuration:       res.DollarDuration,
		AverageLife:          res.AverageLife,
		TotalFutureCashflows: res.TotalFutureCashflows,
		DaysToNextCashflow:   res.DaysToNextCashflow,
		NominalSpreadBP:      res.NominalSpreadBP,
		ZSpreadBP:            res.ZSpreadBP,
		SolverAlgorithm:      res.Solver.Algorithm,
		SolverIterations:     res.Solver.Iterations,
		SolverResidual:       res.Solver.Residual,
		SolverConverged:      res.Solver.Converged,
	}, nil
}
