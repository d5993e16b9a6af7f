package model

// Operation records what the executor did in one interval.
// Grid-side and storage-side energies are carried separately so losses are
// visible per leg: stored = from-grid * etaCharge, to-grid = drawn * etaDischarge.
type Operation struct {
	Index int     `json:"index"`
	Time  string  `json:"time,omitempty"`
	Price float64 `json:"price"`

	Action Action `json:"action"`

	// GridPowerMW is the signed flow at the connection point,
	// positive = export to grid.
	GridPowerMW float64 `json:"grid_power_mw"`

	EnergyFromGridMWh float64 `json:"energy_from_grid_mwh"`
	EnergyStoredMWh   float64 `json:"energy_stored_mwh"`
	EnergyDrawnMWh    float64 `json:"energy_drawn_mwh"`
	EnergyToGridMWh   float64 `json:"energy_to_grid_mwh"`

	SoCStartMWh float64 `json:"soc_start_mwh"`
	SoCEndMWh   float64 `json:"soc_end_mwh"`

	Revenue           float64 `json:"revenue"`
	CumulativeRevenue float64 `json:"cumulative_revenue"`
}

// Calibration describes the throughput-cost search the DP solver ran.
type Calibration struct {
	ThroughputCost float64 `json:"throughput_cost"`
	Iterations     int     `json:"iterations"`
	RealizedCycles float64 `json:"realized_cycles"`
	Converged      bool    `json:"converged"`
}

// ReservationPrices are per-interval diagnostic thresholds from the DP
// solver: charge below, discharge above. Smoothed to suppress
// grid-discretization noise.
type ReservationPrices struct {
	Charge    []float64 `json:"charge"`
	Discharge []float64 `json:"discharge"`
}

// OptimizationResult is the full outcome of one region-day run.
// Never mutated after return; owned by the caller.
type OptimizationResult struct {
	Optimizer string `json:"optimizer"`

	Revenue             float64 `json:"revenue"`
	Cycles              float64 `json:"cycles"`
	EnergyChargedMWh    float64 `json:"energy_charged_mwh"`
	EnergyDischargedMWh float64 `json:"energy_discharged_mwh"`
	AvgChargePrice      float64 `json:"avg_charge_price"`
	AvgDischargePrice   float64 `json:"avg_discharge_price"`
	RealizedSpread      float64 `json:"realized_spread"`
	UtilizationPct      float64 `json:"utilization_pct"`
	FinalSoCMWh         float64 `json:"final_soc_mwh"`

	Operations []Operation `json:"operations"`

	// SoCHistory has len(Operations)+1 entries; SoCHistory[0] is the
	// initial state.
	SoCHistory []float64 `json:"soc_history"`

	Reservation *ReservationPrices `json:"reservation,omitempty"`
	Calibration *Calibration       `json:"calibration,omitempty"`
}
