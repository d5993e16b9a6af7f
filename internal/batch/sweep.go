// Package batch fans single-day optimizations out over many trading days.
// One day failing or timing out is recorded in its slot and the sweep
// carries on; the caller decides what a partial sweep is worth.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// DayResult is one day's slot in the sweep output, in input order.
type DayResult struct {
	Region  string
	Date    string
	Result  *model.OptimizationResult
	Err     error
	Elapsed time.Duration
}

// Options tune the sweep runner. The zero value uses one worker per CPU
// and no per-day timeout.
type Options struct {
	Workers int
	Timeout time.Duration
}

type Runner struct {
	engine  *arb.Engine
	workers int
	timeout time.Duration
}

func NewRunner(opts Options) *Runner {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		engine:  arb.New(),
		workers: workers,
		timeout: opts.Timeout,
	}
}

// Sweep runs base against every day on a bounded worker pool. The returned
// slice is parallel to days. Cancelling ctx abandons days not yet started;
// their slots carry the context error.
func (r *Runner) Sweep(ctx context.Context, base arb.Request, days []model.TradingDay) []DayResult {
	results := make([]DayResult, len(days))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.runDay(ctx, base, days[i])
			}
		}()
	}

	for i := range days {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Runner) runDay(ctx context.Context, base arb.Request, day model.TradingDay) DayResult {
	out := DayResult{Region: day.Region, Date: day.Date}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	req := base
	req.Day = day

	type outcome struct {
		res *model.OptimizationResult
		err error
	}

	// The solve itself is not cancelable; on timeout the goroutine is left
	// to finish and its result is dropped.
	done := make(chan outcome, 1)
	go func() {
		res, err := r.engine.Run(req)
		done <- outcome{res: res, err: err}
	}()

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	select {
	case o := <-done:
		out.Result, out.Err = o.res, o.err
	case <-runCtx.Done():
		out.Err = fmt.Errorf("day %s %s: %w", day.Region, day.Date, runCtx.Err())
	}

	out.Elapsed = time.Since(start)
	return out
}

// Failed collects the slots that did not produce a result.
func Failed(results []DayResult) []DayResult {
	var out []DayResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
