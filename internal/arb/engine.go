// Package arb ties the pipeline together: clean the price series, compute a
// schedule, replay it against the battery model and summarize the outcome.
// Everything here is pure computation; callers own logging and persistence.
package arb

import (
	"fmt"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/analysis"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/optimizer"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/sim"
)

// Request is one single-day optimization job.
type Request struct {
	Day       model.TradingDay
	Battery   model.BatteryConfig
	Optimizer string // "" selects the DP solver
	Params    optimizer.Params
	CleanMode prices.Mode // "" leaves prices raw
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run executes one trading day end to end. Input problems come back as
// *model.ConfigError or model.ErrInsufficientData before any computation;
// a non-converged calibration is reported in the result, not as an error.
func (e *Engine) Run(req Request) (*model.OptimizationResult, error) {
	if err := req.Battery.Validate(); err != nil {
		return nil, &model.ConfigError{Err: err}
	}
	if !req.CleanMode.Valid() {
		return nil, &model.ConfigError{Err: fmt.Errorf("unknown price mode %q", req.CleanMode)}
	}
	raw := req.Day.Prices()
	if len(raw) < 2 {
		return nil, model.ErrInsufficientData
	}
	dt := req.Day.IntervalHours()
	if dt <= 0 {
		return nil, &model.ConfigError{Err: fmt.Errorf("interval minutes must be > 0")}
	}

	opt, err := optimizer.New(req.Optimizer, req.Params)
	if err != nil {
		return nil, &model.ConfigError{Err: err}
	}

	series := prices.Clean(raw, req.CleanMode)

	sched, err := opt.Optimize(series, req.Battery, dt)
	if err != nil {
		return nil, fmt.Errorf("%s optimizer: %w", opt.Name(), err)
	}

	trace, err := sim.Execute(series, sched.Decisions, req.Battery, dt)
	if err != nil {
		return nil, fmt.Errorf("execute schedule: %w", err)
	}
	for i := range trace.Operations {
		trace.Operations[i].Time = req.Day.Intervals[i].Time
	}

	m := analysis.Compute(trace.Operations, req.Battery)

	return &model.OptimizationResult{
		Optimizer:           opt.Name(),
		Revenue:             m.Revenue,
		Cycles:              m.Cycles,
		EnergyChargedMWh:    m.EnergyChargedMWh,
		EnergyDischargedMWh: m.EnergyDischargedMWh,
		AvgChargePrice:      m.AvgChargePrice,
		AvgDischargePrice:   m.AvgDischargePrice,
		RealizedSpread:      m.RealizedSpread,
		UtilizationPct:      m.UtilizationPct,
		FinalSoCMWh:         trace.FinalSoCMWh,
		Operations:          trace.Operations,
		SoCHistory:          trace.SoCHistory,
		Reservation:         sched.Reservation,
		Calibration:         sched.Calibration,
	}, nil
}
