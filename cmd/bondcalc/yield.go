package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianfi/bondlib/bond"
)

var yieldInputPath string

var yieldCmd = &cobra.Command{
	Use:   "yield",
	Short: "Price a bond at a supplied yield",
	Long: `Reads one JSON task (or an array of tasks) with a bond schedule and a
yield (decimal), and prints the clean price, dirty price and accrued
interest at that yield.`,
	RunE: runYield,
}

func init() {
	yieldCmd.Flags().StringVar(&yieldInputPath, "input", "", "JSON input path (reads stdin if omitted)")
	rootCmd.AddCommand(yieldCmd)
}

type yieldTask struct {
	TaskID         string   `json:"task_id,omitempty"`
	SettlementDate string   `json:"settlement_date,omitempty"`
	TradeDate      string   `json:"trade_date,omitempty"`
	Yield          float64  `json:"yield"`
	Bond           bondJSON `json:"bond"`
}

type yieldOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	SettlementDate  string  `json:"settlement_date,omitempty"`
	Yield           float64 `json:"yield,omitempty"`
	CleanPrice      float64 `json:"clean_price,omitempty"`
	DirtyPrice      float64 `json:"dirty_price,omitempty"`
	AccruedInterest float64 `json:"accrued_interest,omitempty"`
	Error           string  `json:"error,omitempty"`
}

func runYield(cmd *cobra.Command, args []string) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	raw, err := readInput(yieldInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	tasks, isArray, err := decodeTasks[yieldTask](raw)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	hadError := false
	outputs := make([]yieldOutput, 0, len(tasks))
	for _, task := range tasks {
		out, err := processYield(task)
		if err != nil {
			hadError = true
			log.Warn("yield task failed", zap.String("task_id", task.TaskID), zap.Error(err))
			outputs = append(outputs, yieldOutput{TaskID: task.TaskID, Error: err.Error()})
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

func processYield(task yieldTask) (*yieldOutput, error) {
	b, err := task.Bond.toBond()
	if err != nil {
		return nil, err
	}
	settlement, err := resolveSettlement(b, task.SettlementDate, task.TradeDate)
	if err != nil {
		return nil, err
	}

	prices, err := bond.FromYield(b, task.Yield, settlement)
	if err != nil {
		return nil, err
	}

	return &yieldOutput{
		TaskID:          task.TaskID,
		SettlementDate:  settlement.Format("2006-01-02"),
		Yield:           task.Yield,
		CleanPrice:      prices.CleanPrice,
		DirtyPrice:      prices.DirtyPrice,
		AccruedInterest: prices.AccruedInterest,
	}, nil
}
