package model

import (
	"errors"
	"math"
)

// BatteryConfig defines the physical and economic parameters of the battery.
// Units:
// - CapacityMWh: MWh of usable storage
// - PowerMW: MW limit on energy moved per interval
// - Efficiencies: 0..1
// - MaxCycles: full charge+discharge equivalents per day; 0 = uncapped
// - InitialSoCMWh: MWh, within [0, CapacityMWh]
//
// Either RoundTripEfficiency or both per-leg efficiencies must be set.
// The config is immutable for the duration of one optimization run.
type BatteryConfig struct {
	CapacityMWh         float64 `yaml:"capacity_mwh" json:"capacity_mwh"`
	PowerMW             float64 `yaml:"power_mw" json:"power_mw"`
	RoundTripEfficiency float64 `yaml:"round_trip_efficiency" json:"round_trip_efficiency"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency,omitempty" json:"charge_efficiency,omitempty"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency,omitempty" json:"discharge_efficiency,omitempty"`
	MaxCycles           float64 `yaml:"max_cycles" json:"max_cycles"`
	InitialSoCMWh       float64 `yaml:"initial_soc_mwh" json:"initial_soc_mwh"`
}

func (c BatteryConfig) Validate() error {
	if c.CapacityMWh <= 0 {
		return errors.New("CapacityMWh must be > 0")
	}
	if c.PowerMW <= 0 {
		return errors.New("PowerMW must be > 0")
	}
	if c.ChargeEfficiency != 0 || c.DischargeEfficiency != 0 {
		if c.ChargeEfficiency <= 0 || c.ChargeEfficiency > 1 {
			return errors.New("ChargeEfficiency must be in (0, 1]")
		}
		if c.DischargeEfficiency <= 0 || c.DischargeEfficiency > 1 {
			return errors.New("DischargeEfficiency must be in (0, 1]")
		}
	} else if c.RoundTripEfficiency <= 0 || c.RoundTripEfficiency > 1 {
		return errors.New("RoundTripEfficiency must be in (0, 1]")
	}
	if c.MaxCycles < 0 {
		return errors.New("MaxCycles must be >= 0")
	}
	if c.InitialSoCMWh < 0 || c.InitialSoCMWh > c.CapacityMWh {
		return errors.New("InitialSoCMWh must be within [0, CapacityMWh]")
	}
	return nil
}

// Legs resolves the efficiency split. Explicit per-leg values win; otherwise
// the round-trip efficiency is split as sqrt(eta) on each leg.
func (c BatteryConfig) Legs() (etaCharge, etaDischarge float64) {
	if c.ChargeEfficiency != 0 || c.DischargeEfficiency != 0 {
		return c.ChargeEfficiency, c.DischargeEfficiency
	}
	leg := math.Sqrt(c.RoundTripEfficiency)
	return leg, leg
}

// RoundTrip is the product of the two leg efficiencies.
func (c BatteryConfig) RoundTrip() float64 {
	etaC, etaD := c.Legs()
	return etaC * etaD
}

// MaxChargeGridMWh is the grid energy the battery can draw in one interval at
// the given SoC: bounded by power and by the remaining headroom, converting
// grid energy to stored energy at the charge-leg efficiency.
func (c BatteryConfig) MaxChargeGridMWh(socMWh, hours float64) float64 {
	etaC, _ := c.Legs()
	headroom := (c.CapacityMWh - socMWh) / etaC
	return math.Max(0, math.Min(c.PowerMW*hours, headroom))
}

// MaxDischargeDrawnMWh is the stored energy the battery can draw out in one
// interval at the given SoC: bounded by power and by the energy on hand.
func (c BatteryConfig) MaxDischargeDrawnMWh(socMWh, hours float64) float64 {
	return math.Max(0, math.Min(c.PowerMW*hours, socMWh))
}
