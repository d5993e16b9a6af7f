package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

func heuristicBattery(capacity, power float64) model.BatteryConfig {
	return model.BatteryConfig{
		CapacityMWh:         capacity,
		PowerMW:             power,
		RoundTripEfficiency: 0.81,
	}
}

func actions(decisions []model.Decision) []model.Action {
	out := make([]model.Action, len(decisions))
	for i, d := range decisions {
		out[i] = d.Action
	}
	return out
}

func TestHeuristic_PairsTroughWithLaterPeak(t *testing.T) {
	// Capacity needs two intervals at rated power, so both windows are
	// two wide and the peak must sit clear of the charge window.
	series := []float64{30, 10, 30, 30, 80, 30}

	sched, err := NewHeuristic().Optimize(series, heuristicBattery(2, 1), 1)
	require.NoError(t, err)

	assert.Equal(t, []model.Action{
		model.ActionIdle,
		model.ActionCharge, model.ActionCharge,
		model.ActionIdle,
		model.ActionDischarge, model.ActionDischarge,
	}, actions(sched.Decisions))

	for _, i := range []int{1, 2, 4, 5} {
		assert.InDelta(t, 1, sched.Decisions[i].PowerMW, 1e-12, "decision %d", i)
	}
}

func TestHeuristic_RespectsMaxCycles(t *testing.T) {
	// Two profitable V-shapes but a budget of one pairing: only the
	// cheapest trough trades, against the best later peak.
	series := []float64{50, 10, 50, 90, 50, 20, 50, 70, 50}
	cfg := heuristicBattery(1, 1)
	cfg.MaxCycles = 1

	sched, err := NewHeuristic().Optimize(series, cfg, 1)
	require.NoError(t, err)

	nonIdle := 0
	for _, d := range sched.Decisions {
		if d.Action != model.ActionIdle {
			nonIdle++
		}
	}
	assert.Equal(t, 2, nonIdle)
	assert.Equal(t, model.ActionCharge, sched.Decisions[1].Action)
	assert.Equal(t, model.ActionDischarge, sched.Decisions[3].Action)
	assert.Equal(t, model.ActionIdle, sched.Decisions[5].Action)
	assert.Equal(t, model.ActionIdle, sched.Decisions[7].Action)
}

func TestHeuristic_SkipsNonPositiveAdjustedSpread(t *testing.T) {
	// Peak 44 over trough 40 looks positive raw but loses after the
	// sqrt(0.81) haircut: 44*0.9 - 40 < 0, so no pairing.
	series := []float64{50, 40, 42, 44, 42, 50}

	sched, err := NewHeuristic().Optimize(series, heuristicBattery(1, 1), 1)
	require.NoError(t, err)

	for i, d := range sched.Decisions {
		assert.Equal(t, model.ActionIdle, d.Action, "decision %d", i)
	}
}

func TestHeuristic_MovesFullCapacityWindow(t *testing.T) {
	// Four-hour windows for a 4 MWh / 1 MW unit: the flats are exactly
	// window sized, so one pairing consumes both in full.
	series := []float64{50, 10, 10, 10, 10, 50, 50, 90, 90, 90, 90, 50}

	sched, err := NewHeuristic().Optimize(series, heuristicBattery(4, 1), 1)
	require.NoError(t, err)

	want := []model.Action{
		model.ActionIdle,
		model.ActionCharge, model.ActionCharge, model.ActionCharge, model.ActionCharge,
		model.ActionIdle, model.ActionIdle,
		model.ActionDischarge, model.ActionDischarge, model.ActionDischarge, model.ActionDischarge,
		model.ActionIdle,
	}
	assert.Equal(t, want, actions(sched.Decisions))
}

func TestHeuristic_PrefersHighestLaterPeak(t *testing.T) {
	series := []float64{40, 5, 40, 60, 40, 95, 40}

	sched, err := NewHeuristic().Optimize(series, heuristicBattery(1, 1), 1)
	require.NoError(t, err)

	assert.Equal(t, model.ActionCharge, sched.Decisions[1].Action)
	assert.Equal(t, model.ActionIdle, sched.Decisions[3].Action)
	assert.Equal(t, model.ActionDischarge, sched.Decisions[5].Action)
}

func TestHeuristic_MonotoneSeriesIdles(t *testing.T) {
	sched, err := NewHeuristic().Optimize([]float64{10, 20, 30, 40}, heuristicBattery(1, 1), 1)
	require.NoError(t, err)

	for i, d := range sched.Decisions {
		assert.Equal(t, model.ActionIdle, d.Action, "decision %d", i)
	}
}

func TestHeuristic_InsufficientData(t *testing.T) {
	_, err := NewHeuristic().Optimize([]float64{42}, heuristicBattery(1, 1), 1)
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}
