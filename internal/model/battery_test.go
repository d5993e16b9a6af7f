package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() BatteryConfig {
	return BatteryConfig{
		CapacityMWh:         100,
		PowerMW:             50,
		RoundTripEfficiency: 0.9,
		MaxCycles:           1,
		InitialSoCMWh:       50,
	}
}

func TestBatteryConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*BatteryConfig)
	}{
		{"zero capacity", func(c *BatteryConfig) { c.CapacityMWh = 0 }},
		{"negative capacity", func(c *BatteryConfig) { c.CapacityMWh = -10 }},
		{"zero power", func(c *BatteryConfig) { c.PowerMW = 0 }},
		{"zero efficiency", func(c *BatteryConfig) { c.RoundTripEfficiency = 0 }},
		{"efficiency above one", func(c *BatteryConfig) { c.RoundTripEfficiency = 1.2 }},
		{"charge leg above one", func(c *BatteryConfig) { c.ChargeEfficiency = 1.5; c.DischargeEfficiency = 0.9 }},
		{"discharge leg unset", func(c *BatteryConfig) { c.ChargeEfficiency = 0.95; c.DischargeEfficiency = 0 }},
		{"negative max cycles", func(c *BatteryConfig) { c.MaxCycles = -1 }},
		{"negative initial soc", func(c *BatteryConfig) { c.InitialSoCMWh = -1 }},
		{"initial soc above capacity", func(c *BatteryConfig) { c.InitialSoCMWh = 101 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestBatteryConfig_Legs(t *testing.T) {
	c := validConfig()
	c.RoundTripEfficiency = 0.81

	etaC, etaD := c.Legs()
	assert.InDelta(t, 0.9, etaC, 1e-12)
	assert.InDelta(t, 0.9, etaD, 1e-12)
	assert.InDelta(t, 0.81, c.RoundTrip(), 1e-12)

	// Explicit per-leg values take precedence over the round-trip split.
	c.ChargeEfficiency = 0.95
	c.DischargeEfficiency = 0.92
	etaC, etaD = c.Legs()
	assert.InDelta(t, 0.95, etaC, 1e-12)
	assert.InDelta(t, 0.92, etaD, 1e-12)
	assert.InDelta(t, 0.95*0.92, c.RoundTrip(), 1e-12)
}

func TestBatteryConfig_MaxChargeGridMWh(t *testing.T) {
	c := validConfig()
	c.ChargeEfficiency = 0.9
	c.DischargeEfficiency = 0.9
	dt := 1.0 / 12.0 // 5 minutes

	// Empty battery: power-limited, 50 MW for 5 minutes.
	assert.InDelta(t, 50*dt, c.MaxChargeGridMWh(0, dt), 1e-9)

	// Nearly full: headroom-limited. 1 MWh of headroom needs 1/0.9 MWh
	// from the grid.
	assert.InDelta(t, 1.0/0.9, c.MaxChargeGridMWh(99, dt), 1e-9)

	// Full: nothing to do.
	assert.InDelta(t, 0, c.MaxChargeGridMWh(100, dt), 1e-9)
}

func TestBatteryConfig_MaxDischargeDrawnMWh(t *testing.T) {
	c := validConfig()
	dt := 1.0 / 12.0

	// Full battery: power-limited.
	assert.InDelta(t, 50*dt, c.MaxDischargeDrawnMWh(100, dt), 1e-9)

	// Nearly empty: energy-limited.
	assert.InDelta(t, 2.5, c.MaxDischargeDrawnMWh(2.5, dt), 1e-9)

	// Empty.
	assert.InDelta(t, 0, c.MaxDischargeDrawnMWh(0, dt), 1e-9)
}
