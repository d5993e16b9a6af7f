// Package sim replays decision schedules against a price series, enforcing
// the battery's physical constraints and producing the operations trace.
package sim

import (
	"fmt"
	"math"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// MinRunIntervals is the shortest operable run of a non-idle action.
// Shorter runs are not dispatchable by a real battery and are idled.
const MinRunIntervals = 3

const (
	energyEps = 1e-9
	socEps    = 1e-6
)

// Trace is the executor's full output for one day.
type Trace struct {
	// Decisions is the schedule actually executed, after the minimum
	// run-length filter. Re-executing it reproduces the trace exactly.
	Decisions []model.Decision

	Operations []model.Operation

	// SoCHistory has len(Operations)+1 entries, starting at the initial SoC.
	SoCHistory []float64

	TotalRevenue float64
	FinalSoCMWh  float64
}

// Execute replays a decision schedule against the price series.
//
// Charging draws grid energy bounded by power and remaining headroom and
// stores it at the charge-leg efficiency; discharging draws stored energy
// bounded by power and the energy on hand and delivers it at the
// discharge-leg efficiency. A decision whose feasible energy is zero
// executes as idle.
//
// A computed SoC outside [0, CapacityMWh] is an implementation bug and
// returns InvariantViolation rather than being silently clamped.
func Execute(series []float64, decisions []model.Decision, cfg model.BatteryConfig, dtHours float64) (*Trace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("battery config: %w", err)
	}
	if len(series) != len(decisions) {
		return nil, fmt.Errorf("series has %d intervals but schedule has %d decisions", len(series), len(decisions))
	}
	if dtHours <= 0 {
		return nil, fmt.Errorf("interval hours must be > 0")
	}

	filtered := FilterMinRun(decisions, MinRunIntervals)
	etaC, etaD := cfg.Legs()

	soc := cfg.InitialSoCMWh
	ops := make([]model.Operation, 0, len(series))
	hist := make([]float64, 0, len(series)+1)
	hist = append(hist, soc)
	cum := 0.0

	for t, d := range filtered {
		price := series[t]
		op := model.Operation{
			Index:       t,
			Price:       price,
			Action:      model.ActionIdle,
			SoCStartMWh: soc,
		}

		switch d.Action {
		case model.ActionCharge:
			eGrid := math.Min(d.PowerMW*dtHours, cfg.MaxChargeGridMWh(soc, dtHours))
			if eGrid > energyEps {
				stored := eGrid * etaC
				soc += stored
				op.Action = model.ActionCharge
				op.GridPowerMW = -eGrid / dtHours
				op.EnergyFromGridMWh = eGrid
				op.EnergyStoredMWh = stored
				op.Revenue = -price * eGrid
			}
		case model.ActionDischarge:
			eDrawn := math.Min(d.PowerMW*dtHours, cfg.MaxDischargeDrawnMWh(soc, dtHours))
			if eDrawn > energyEps {
				delivered := eDrawn * etaD
				soc -= eDrawn
				op.Action = model.ActionDischarge
				op.GridPowerMW = delivered / dtHours
				op.EnergyDrawnMWh = eDrawn
				op.EnergyToGridMWh = delivered
				op.Revenue = delivered * price
			}
		}

		if soc < -socEps || soc > cfg.CapacityMWh+socEps {
			return nil, &model.InvariantViolation{Index: t, SoCMWh: soc}
		}

		cum += op.Revenue
		op.SoCEndMWh = soc
		op.CumulativeRevenue = cum
		ops = append(ops, op)
		hist = append(hist, soc)
	}

	return &Trace{
		Decisions:    filtered,
		Operations:   ops,
		SoCHistory:   hist,
		TotalRevenue: cum,
		FinalSoCMWh:  soc,
	}, nil
}

// FilterMinRun converts contiguous same-action runs shorter than min
// intervals to idle. Idle runs pass through untouched, so the filter is
// idempotent: applying it to its own output changes nothing.
func FilterMinRun(decisions []model.Decision, min int) []model.Decision {
	out := make([]model.Decision, len(decisions))
	copy(out, decisions)

	for start := 0; start < len(out); {
		end := start
		for end < len(out) && out[end].Action == out[start].Action {
			end++
		}
		if out[start].Action != model.ActionIdle && end-start < min {
			for k := start; k < end; k++ {
				out[k] = model.Idle()
			}
		}
		start = end
	}
	return out
}
