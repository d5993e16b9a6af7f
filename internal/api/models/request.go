package models

import (
	"math"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// DayPayload is an inline day of prices. A null price is a missing sample.
type DayPayload struct {
	Region          string            `json:"region"`
	Date            string            `json:"date"`
	IntervalMinutes int               `json:"interval_minutes,omitempty"`
	Intervals       []IntervalPayload `json:"intervals" binding:"required"`
}

// IntervalPayload is one dispatch interval on the wire.
type IntervalPayload struct {
	Time  string   `json:"time,omitempty"`
	Price *float64 `json:"price"`
}

// ToTradingDay converts the wire shape to the engine's input. Missing
// prices become NaN for the preprocessor.
func (d DayPayload) ToTradingDay() model.TradingDay {
	day := model.TradingDay{
		Region:          d.Region,
		Date:            d.Date,
		IntervalMinutes: d.IntervalMinutes,
	}
	if day.IntervalMinutes == 0 {
		day.IntervalMinutes = 5
	}
	for i, iv := range d.Intervals {
		price := math.NaN()
		if iv.Price != nil {
			price = *iv.Price
		}
		day.Intervals = append(day.Intervals, model.PriceInterval{
			Index: i,
			Time:  iv.Time,
			Price: price,
		})
	}
	return day
}

// SourceConfig asks the server to fetch the day from the price API
// instead of carrying it inline.
type SourceConfig struct {
	Region string `json:"region" binding:"required"`
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	APIKey string `json:"api_key,omitempty"`
}

// OptimizerPayload selects and parameterizes a solver. The zero value is
// the DP solver with its defaults.
type OptimizerPayload struct {
	Name           string   `json:"name,omitempty"`
	SoCLevels      int      `json:"soc_levels,omitempty"`
	SalvageRate    *float64 `json:"salvage_rate,omitempty"`
	ThroughputCost *float64 `json:"throughput_cost,omitempty"`
	MaxIterations  int      `json:"max_iterations,omitempty"`
	CycleTolerance float64  `json:"cycle_tolerance,omitempty"`
}

// OptimizeOptions tune preprocessing and the response shape.
type OptimizeOptions struct {
	PriceMode          string `json:"price_mode,omitempty"` // raw|clamp|despike
	IncludeOperations  bool   `json:"include_operations,omitempty"`
	IncludeReservation bool   `json:"include_reservation,omitempty"`
}

// OptimizeRequest is the body for POST /api/v1/optimize. Exactly one of
// Day and Source supplies the prices.
type OptimizeRequest struct {
	Day         *DayPayload         `json:"day,omitempty"`
	Source      *SourceConfig       `json:"source,omitempty"`
	BatteryFile string              `json:"battery_file,omitempty"`
	Battery     model.BatteryConfig `json:"battery"`
	Optimizer   OptimizerPayload    `json:"optimizer"`
	Options     OptimizeOptions     `json:"options"`
}

// Variation is one optimizer setup in a comparison.
type Variation struct {
	Name      string               `json:"name" binding:"required"`
	Optimizer OptimizerPayload     `json:"optimizer"`
	Battery   *model.BatteryConfig `json:"battery,omitempty"` // non-zero fields override the base battery
}

// CompareRequest runs several optimizer variations over one day.
type CompareRequest struct {
	Day         *DayPayload         `json:"day,omitempty"`
	Source      *SourceConfig       `json:"source,omitempty"`
	BatteryFile string              `json:"battery_file,omitempty"`
	Battery     model.BatteryConfig `json:"battery"`
	Options     OptimizeOptions     `json:"options"`
	Variations  []Variation         `json:"variations" binding:"required"`
}

// SweepRequest runs one setup across many days.
type SweepRequest struct {
	Days        []DayPayload        `json:"days" binding:"required"`
	BatteryFile string              `json:"battery_file,omitempty"`
	Battery     model.BatteryConfig `json:"battery"`
	Optimizer   OptimizerPayload    `json:"optimizer"`
	Options     OptimizeOptions     `json:"options"`
	Workers     int                 `json:"workers,omitempty"`
	TimeoutMS   int                 `json:"timeout_ms,omitempty"`
}

// PotentialRequest computes per-day price statistics and arbitrage
// potential; no battery involved.
type PotentialRequest struct {
	Days  []DayPayload `json:"days" binding:"required"`
	Limit int          `json:"limit,omitempty"` // 0 = all
}
