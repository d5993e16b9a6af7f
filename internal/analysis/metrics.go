// Package analysis derives summary metrics from executed traces and ranks
// trading days by arbitrage potential.
package analysis

import (
	"math"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// Metrics summarizes one day's operations trace.
type Metrics struct {
	Revenue             float64
	Cycles              float64
	EnergyChargedMWh    float64
	EnergyDischargedMWh float64
	AvgChargePrice      float64
	AvgDischargePrice   float64
	RealizedSpread      float64
	UtilizationPct      float64
}

// Compute aggregates the trace.
//
// Cycles count storage-side energy: min(stored in, drawn out) / capacity,
// so one full charge+discharge pair is one cycle regardless of leg losses.
// Average prices are weighted by grid-side energy, which makes them
// reconcile with cash revenue. Utilization is measured against the cycle
// target when one is set, otherwise as the share of non-idle intervals.
func Compute(ops []model.Operation, cfg model.BatteryConfig) Metrics {
	var m Metrics
	var chargeCost, dischargeRevenue float64
	var gridIn, gridOut float64
	active := 0

	for _, op := range ops {
		m.Revenue += op.Revenue
		m.EnergyChargedMWh += op.EnergyStoredMWh
		m.EnergyDischargedMWh += op.EnergyDrawnMWh
		gridIn += op.EnergyFromGridMWh
		gridOut += op.EnergyToGridMWh
		chargeCost += op.Price * op.EnergyFromGridMWh
		dischargeRevenue += op.Price * op.EnergyToGridMWh
		if op.Action != model.ActionIdle {
			active++
		}
	}

	if cfg.CapacityMWh > 0 {
		m.Cycles = math.Min(m.EnergyChargedMWh, m.EnergyDischargedMWh) / cfg.CapacityMWh
	}
	if gridIn > 0 {
		m.AvgChargePrice = chargeCost / gridIn
	}
	if gridOut > 0 {
		m.AvgDischargePrice = dischargeRevenue / gridOut
	}
	m.RealizedSpread = m.AvgDischargePrice*math.Sqrt(cfg.RoundTrip()) - m.AvgChargePrice

	if cfg.MaxCycles > 0 {
		m.UtilizationPct = m.Cycles / cfg.MaxCycles * 100
	} else if len(ops) > 0 {
		m.UtilizationPct = float64(active) / float64(len(ops)) * 100
	}
	return m
}
