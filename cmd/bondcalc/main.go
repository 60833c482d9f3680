package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "bondcalc",
	Short: "bondcalc - fixed-income cash-flow analytics",
	Long: `bondcalc prices bonds from expanded cash-flow schedules: it solves
price to yield (or yield to price) and derives durations, convexity,
average life and benchmark spreads. Inputs are JSON task files; outputs
are JSON on stdout.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
