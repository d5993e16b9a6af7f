package models

import (
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// Summary carries the headline figures of one run.
type Summary struct {
	Optimizer           string  `json:"optimizer"`
	Revenue             float64 `json:"revenue"`
	Cycles              float64 `json:"cycles"`
	EnergyChargedMWh    float64 `json:"energy_charged_mwh"`
	EnergyDischargedMWh float64 `json:"energy_discharged_mwh"`
	AvgChargePrice      float64 `json:"avg_charge_price"`
	AvgDischargePrice   float64 `json:"avg_discharge_price"`
	RealizedSpread      float64 `json:"realized_spread"`
	UtilizationPct      float64 `json:"utilization_pct"`
	FinalSoCMWh         float64 `json:"final_soc_mwh"`
	Intervals           int     `json:"intervals"`
}

// NewSummary projects a result onto the wire summary.
func NewSummary(res *model.OptimizationResult) Summary {
	return Summary{
		Optimizer:           res.Optimizer,
		Revenue:             res.Revenue,
		Cycles:              res.Cycles,
		EnergyChargedMWh:    res.EnergyChargedMWh,
		EnergyDischargedMWh: res.EnergyDischargedMWh,
		AvgChargePrice:      res.AvgChargePrice,
		AvgDischargePrice:   res.AvgDischargePrice,
		RealizedSpread:      res.RealizedSpread,
		UtilizationPct:      res.UtilizationPct,
		FinalSoCMWh:         res.FinalSoCMWh,
		Intervals:           len(res.Operations),
	}
}

// OptimizeResponse is the body for POST /api/v1/optimize.
type OptimizeResponse struct {
	ID          string                   `json:"id,omitempty"`
	Status      string                   `json:"status"`
	Region      string                   `json:"region,omitempty"`
	Date        string                   `json:"date,omitempty"`
	Summary     Summary                  `json:"summary"`
	Calibration *model.Calibration       `json:"calibration,omitempty"`
	Operations  []model.Operation        `json:"operations,omitempty"`
	SoCHistory  []float64                `json:"soc_history,omitempty"`
	Reservation *model.ReservationPrices `json:"reservation,omitempty"`
}

// CompareResponse is the body for POST /api/v1/optimize/compare.
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult is one variation's outcome. A failed variation carries
// its error instead of being dropped from the response.
type ComparisonResult struct {
	Name    string   `json:"name"`
	Summary *Summary `json:"summary,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SweepResponse is the body for POST /api/v1/sweep.
type SweepResponse struct {
	Days   []SweepDayResult `json:"days"`
	Totals SweepTotals      `json:"totals"`
}

// SweepDayResult is one day's slot, in request order.
type SweepDayResult struct {
	Region    string   `json:"region"`
	Date      string   `json:"date"`
	Summary   *Summary `json:"summary,omitempty"`
	Error     string   `json:"error,omitempty"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// SweepTotals aggregates the successful days.
type SweepTotals struct {
	Days    int     `json:"days"`
	Failed  int     `json:"failed"`
	Revenue float64 `json:"revenue"`
	Cycles  float64 `json:"cycles"`
}

// PotentialResponse ranks days by arbitrage potential.
type PotentialResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking is one region-day's spread statistics.
type Ranking struct {
	Rank         int     `json:"rank"`
	Region       string  `json:"region"`
	Date         string  `json:"date"`
	Count        int     `json:"count"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	MeanPrice    float64 `json:"mean_price"`
	P05Price     float64 `json:"p05_price"`
	P95Price     float64 `json:"p95_price"`
	SpreadP95P05 float64 `json:"spread_p95_p05"`
	OracleProfit float64 `json:"oracle_profit"`
}

// BatteryInfo describes one battery preset file.
type BatteryInfo struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	File  string       `json:"file"`
	Specs BatterySpecs `json:"specs"`
}

// BatterySpecs are the headline parameters of a preset.
type BatterySpecs struct {
	CapacityMWh         float64 `json:"capacity_mwh"`
	PowerMW             float64 `json:"power_mw"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	MaxCycles           float64 `json:"max_cycles"`
}

// OptimizerInfo describes one selectable optimizer.
type OptimizerInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo documents an optimizer parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse is the error envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
