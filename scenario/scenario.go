// Package scenario fans independent pricing calls across a bounded worker
// pool. Every call into the engine is pure and allocation-local, so grid
// workloads need no coordination beyond collecting results in order.
package scenario

import (
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/meridianfi/bondlib/bond"
	"github.com/meridianfi/bondlib/curve"
)

// Task is one independent price-to-analytics call.
type Task struct {
	Label string
	Quote bond.Quote
}

// Outcome pairs a task with its result or error, in input order.
type Outcome struct {
	Label  string
	Result *bond.Result
	Err    error
}

// ShockOutcome is the result of repricing at a shocked yield.
type ShockOutcome struct {
	ShockBP float64
	Prices  bond.PriceResult
	Err     error
}

// PriceGrid builds tasks pricing the same bond at each dirty price.
func PriceGrid(settlement time.Time, dirtyPrices []float64, bench *curve.Benchmark) []Task {
	tasks := make([]Task, 0, len(dirtyPrices))
	for _, p := range dirtyPrices {
		p := p
		tasks = append(tasks, Task{
			Label: formatPrice(p),
			Quote: bond.Quote{
				SettlementDate: settlement,
				DirtyPrice:     &p,
				Curve:          bench,
			},
		})
	}
	return tasks
}

// Run executes the tasks against one bond over at most workers goroutines
// (defaulting to the CPU count) and returns outcomes in task order.
func Run(b bond.Bond, tasks []Task, workers int) []Outcome {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	out := make([]Outcome, len(tasks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := bond.FromPrice(b, tasks[i].Quote)
				out[i] = Outcome{Label: tasks[i].Label, Result: res, Err: err}
			}
		}()
	}
	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// Shocks reprices the bond at the base yield shifted by each shock (in
// basis points), in parallel. Used for building price/yield profiles.
func Shocks(b bond.Bond, baseYield float64, shocksBP []float64, settlement time.Time, workers int) []ShockOutcome {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(shocksBP) {
		workers = len(shocksBP)
	}

	out := make([]ShockOutcome, len(shocksBP))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				shocked := baseYield + shocksBP[i]/1e4
				prices, err := bond.FromYield(b, shocked, settlement)
				out[i] = ShockOutcome{ShockBP: shocksBP[i], Prices: prices, Err: err}
			}
		}()
	}
	for i := range shocksBP {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

func formatPrice(p float64) string {
	return "px=" + strconv.FormatFloat(p, 'f', -1, 64)
}
