// Package optimizer computes charge/discharge schedules for one trading day.
//
// Two interchangeable strategies are provided: an exact dynamic-programming
// solver and a fast greedy heuristic. Both consume a cleaned price series and
// produce the same schedule contract, so the executor and metrics stages are
// shared.
package optimizer

import (
	"fmt"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// Schedule is an optimizer's output: one decision per price interval plus
// any solver diagnostics.
type Schedule struct {
	Decisions   []model.Decision
	Reservation *model.ReservationPrices
	Calibration *model.Calibration
}

// Optimizer is the strategy contract. Implementations are pure: no I/O, no
// shared state, deterministic for a given input.
type Optimizer interface {
	Name() string
	Optimize(series []float64, cfg model.BatteryConfig, dtHours float64) (*Schedule, error)
}

const (
	NameDP        = "dp"
	NameHeuristic = "heuristic"
)

// Descriptor describes a selectable optimizer for API and CLI listings.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func Descriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        NameDP,
			Description: "Exact backward-induction solver over a discretized SoC grid with calibrated throughput cost.",
		},
		{
			Name:        NameHeuristic,
			Description: "Greedy trough/peak matcher. Fast, approximate, expected to trail the DP result.",
		},
	}
}

// New builds an optimizer by name. DP parameters apply only to the DP solver.
func New(name string, params Params) (Optimizer, error) {
	switch name {
	case NameDP, "":
		return NewDP(params), nil
	case NameHeuristic:
		return NewHeuristic(), nil
	}
	return nil, fmt.Errorf("unknown optimizer %q", name)
}

func checkInput(series []float64, cfg model.BatteryConfig, dtHours float64) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("battery config: %w", err)
	}
	if len(series) < 2 {
		return model.ErrInsufficientData
	}
	if dtHours <= 0 {
		return fmt.Errorf("interval hours must be > 0")
	}
	return nil
}
