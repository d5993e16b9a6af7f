package arb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/optimizer"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
)

func f64(v float64) *float64 { return &v }

func day(minutes int, series []float64) model.TradingDay {
	d := model.TradingDay{Region: "NSW1", Date: "2024-01-15", IntervalMinutes: minutes}
	for i, p := range series {
		d.Intervals = append(d.Intervals, model.PriceInterval{Index: i, Price: p})
	}
	return d
}

func appendBlock(series []float64, price float64, count int) []float64 {
	for i := 0; i < count; i++ {
		series = append(series, price)
	}
	return series
}

// cyclicDay is a full 288-interval day with one cheap hour mid-morning and
// one expensive hour at the close.
func cyclicDay() model.TradingDay {
	var s []float64
	s = appendBlock(s, 50, 84)
	s = appendBlock(s, 20, 12)
	s = appendBlock(s, 50, 180)
	s = appendBlock(s, 100, 12)
	return day(5, s)
}

func TestRun_CyclicDayRecoversInitialSoC(t *testing.T) {
	battery := model.BatteryConfig{
		CapacityMWh:         100,
		PowerMW:             50,
		RoundTripEfficiency: 0.95,
		MaxCycles:           1,
		InitialSoCMWh:       50,
	}

	// Salvage near the prevailing price, so holding energy overnight is
	// worth about as much as selling it: the solver should end the day
	// close to where it started instead of dumping the endowment.
	res, err := New().Run(Request{
		Day:     cyclicDay(),
		Battery: battery,
		Params:  optimizer.Params{SalvageRate: f64(50)},
	})
	require.NoError(t, err)

	assert.Equal(t, optimizer.NameDP, res.Optimizer)
	assert.InDelta(t, 50, res.FinalSoCMWh, 5)
	assert.Greater(t, res.Revenue, 3000.0)
	assert.Greater(t, res.Cycles, 0.3)
	assert.LessOrEqual(t, res.Cycles, battery.MaxCycles+0.01)

	// One trough fill fits under the daily cycle budget, so calibration
	// accepts the zero cost without searching.
	require.NotNil(t, res.Calibration)
	assert.True(t, res.Calibration.Converged)
	assert.Zero(t, res.Calibration.Iterations)
	assert.InDelta(t, 0, res.Calibration.ThroughputCost, 1e-12)

	require.Len(t, res.Operations, 288)
	require.Len(t, res.SoCHistory, 289)
	assert.InDelta(t, 50, res.SoCHistory[0], 1e-9)
	require.NotNil(t, res.Reservation)
	assert.Len(t, res.Reservation.Charge, 288)
	assert.Len(t, res.Reservation.Discharge, 288)
}

// monotoneDay has three V-shapes with spreads 30, 14 and 6 $/MWh, each leg
// three hours wide, then a flat tail.
func monotoneDay() model.TradingDay {
	var s []float64
	s = appendBlock(s, 10, 3)
	s = appendBlock(s, 40, 3)
	s = appendBlock(s, 19, 3)
	s = appendBlock(s, 33, 3)
	s = appendBlock(s, 20, 3)
	s = appendBlock(s, 26, 3)
	s = appendBlock(s, 25, 18)
	return day(60, s)
}

func TestRun_CyclesAndRevenueMonotoneInThroughputCost(t *testing.T) {
	// Lossless battery, no endowment, no salvage: cash revenue isolates
	// the spreads, and each cost step prices one more V-shape out.
	// Per stored MWh a round trip pays spread - 2*cost, so cost 10 keeps
	// only the 30 spread and cost 20 keeps nothing.
	battery := model.BatteryConfig{
		CapacityMWh:         12,
		PowerMW:             4,
		RoundTripEfficiency: 1,
	}

	var revenues, cycles []float64
	for _, tc := range []float64{0, 10, 20} {
		res, err := New().Run(Request{
			Day:     monotoneDay(),
			Battery: battery,
			Params: optimizer.Params{
				ThroughputCost: f64(tc),
				SalvageRate:    f64(0),
			},
		})
		require.NoError(t, err)
		require.NotNil(t, res.Calibration)
		assert.True(t, res.Calibration.Converged)
		assert.InDelta(t, tc, res.Calibration.ThroughputCost, 1e-12)
		revenues = append(revenues, res.Revenue)
		cycles = append(cycles, res.Cycles)
	}

	// (40-10)*12 + (33-19)*12 + (26-20)*12, then the first V only, then none.
	assert.InDelta(t, 600, revenues[0], 5)
	assert.InDelta(t, 360, revenues[1], 5)
	assert.InDelta(t, 0, revenues[2], 1e-6)
	assert.InDelta(t, 3, cycles[0], 0.05)
	assert.InDelta(t, 1, cycles[1], 0.05)
	assert.InDelta(t, 0, cycles[2], 1e-9)

	assert.Greater(t, revenues[0], revenues[1])
	assert.Greater(t, revenues[1], revenues[2])
	assert.Greater(t, cycles[0], cycles[1])
	assert.Greater(t, cycles[1], cycles[2])
}

// extremeDay alternates cheap and expensive hours, including negative
// prices, a sustained spike and a pair of missing samples.
func extremeDay() model.TradingDay {
	blocks := []float64{
		40, 300, 10, 250, 0, 400, 20, 500, 5, 200, 15, 350,
		30, 15000, -50, 450, 25, 280, 8, 320, 12, 260, 18, 240,
	}
	var s []float64
	for _, p := range blocks {
		s = appendBlock(s, p, 12)
	}
	s[3] = math.NaN()
	s[200] = math.NaN()
	return day(5, s)
}

func TestRun_ConstraintsHoldUnderExtremePrices(t *testing.T) {
	battery := model.BatteryConfig{
		CapacityMWh:         50,
		PowerMW:             25,
		RoundTripEfficiency: 0.88,
		MaxCycles:           2,
		InitialSoCMWh:       10,
	}

	for _, name := range []string{optimizer.NameDP, optimizer.NameHeuristic} {
		t.Run(name, func(t *testing.T) {
			res, err := New().Run(Request{
				Day:       extremeDay(),
				Battery:   battery,
				Optimizer: name,
			})
			require.NoError(t, err)

			require.Len(t, res.SoCHistory, len(res.Operations)+1)
			for _, op := range res.Operations {
				assert.GreaterOrEqual(t, op.SoCStartMWh, -1e-3)
				assert.LessOrEqual(t, op.SoCStartMWh, battery.CapacityMWh+1e-3)
				assert.GreaterOrEqual(t, op.SoCEndMWh, -1e-3)
				assert.LessOrEqual(t, op.SoCEndMWh, battery.CapacityMWh+1e-3)
				assert.LessOrEqual(t, math.Abs(op.GridPowerMW), battery.PowerMW+1e-3)
				assert.InDelta(t, op.SoCEndMWh, res.SoCHistory[op.Index+1], 1e-9)
			}
			last := res.Operations[len(res.Operations)-1]
			assert.InDelta(t, res.Revenue, last.CumulativeRevenue, 1e-6)
			assert.LessOrEqual(t, res.Cycles, battery.MaxCycles+0.02)
		})
	}
}

func TestRun_CalibrationSearchesWhenUncappedCyclingOvershoots(t *testing.T) {
	// A tight budget on a volatile day forces the bisection to actually
	// iterate rather than accept the zero cost.
	battery := model.BatteryConfig{
		CapacityMWh:         50,
		PowerMW:             25,
		RoundTripEfficiency: 0.88,
		MaxCycles:           0.5,
		InitialSoCMWh:       10,
	}

	res, err := New().Run(Request{Day: extremeDay(), Battery: battery})
	require.NoError(t, err)

	require.NotNil(t, res.Calibration)
	assert.GreaterOrEqual(t, res.Calibration.Iterations, 1)
	assert.Greater(t, res.Calibration.ThroughputCost, 0.0)
	assert.LessOrEqual(t, res.Calibration.RealizedCycles, battery.MaxCycles+0.011)
	assert.LessOrEqual(t, res.Cycles, battery.MaxCycles+0.011)
}

// blockyDay is irregular but holds every level for four intervals, so the
// minimum run length never truncates either optimizer's schedule.
func blockyDay() model.TradingDay {
	levels := []float64{30, 12, 55, 28, 80, 35, 8, 60, 25, 90, 40, 15}
	var s []float64
	for _, p := range levels {
		s = appendBlock(s, p, 4)
	}
	return day(30, s)
}

func TestRun_DPDominatesHeuristic(t *testing.T) {
	battery := model.BatteryConfig{
		CapacityMWh:         20,
		PowerMW:             10,
		RoundTripEfficiency: 0.85,
	}

	dpRes, err := New().Run(Request{
		Day:     blockyDay(),
		Battery: battery,
		Params:  optimizer.Params{SalvageRate: f64(0)},
	})
	require.NoError(t, err)

	heurRes, err := New().Run(Request{
		Day:       blockyDay(),
		Battery:   battery,
		Optimizer: optimizer.NameHeuristic,
	})
	require.NoError(t, err)

	assert.Equal(t, optimizer.NameHeuristic, heurRes.Optimizer)
	assert.Greater(t, dpRes.Revenue, 0.0)
	assert.GreaterOrEqual(t, dpRes.Revenue+1e-9, heurRes.Revenue)
}

func TestRun_StampsIntervalTimes(t *testing.T) {
	d := day(5, []float64{10, 50, 10})
	d.Intervals[0].Time = "00:00"
	d.Intervals[1].Time = "00:05"
	d.Intervals[2].Time = "00:10"

	res, err := New().Run(Request{
		Day:       d,
		Battery:   model.BatteryConfig{CapacityMWh: 10, PowerMW: 5, RoundTripEfficiency: 0.9},
		Optimizer: optimizer.NameHeuristic,
	})
	require.NoError(t, err)
	require.Len(t, res.Operations, 3)
	assert.Equal(t, "00:05", res.Operations[1].Time)
}

func TestRun_InputErrors(t *testing.T) {
	okDay := day(5, []float64{10, 20, 30})
	okBattery := model.BatteryConfig{CapacityMWh: 10, PowerMW: 5, RoundTripEfficiency: 0.9}

	var cfgErr *model.ConfigError

	_, err := New().Run(Request{Day: okDay, Battery: model.BatteryConfig{PowerMW: 5, RoundTripEfficiency: 0.9}})
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New().Run(Request{Day: day(5, []float64{42}), Battery: okBattery})
	assert.ErrorIs(t, err, model.ErrInsufficientData)

	_, err = New().Run(Request{Day: okDay, Battery: okBattery, Optimizer: "annealer"})
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New().Run(Request{Day: okDay, Battery: okBattery, CleanMode: prices.Mode("median")})
	assert.ErrorAs(t, err, &cfgErr)

	_, err = New().Run(Request{Day: day(0, []float64{10, 20, 30}), Battery: okBattery})
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRun_CleanModeAppliesBeforeExecution(t *testing.T) {
	// Operations carry the price the executor saw, so the stamped values
	// show whether the series was cleaned before optimization.
	d := day(5, []float64{50, 20000, -2000, 50, math.NaN(), 50})
	battery := model.BatteryConfig{CapacityMWh: 10, PowerMW: 5, RoundTripEfficiency: 0.9}

	raw, err := New().Run(Request{Day: d, Battery: battery, Optimizer: optimizer.NameHeuristic})
	require.NoError(t, err)
	assert.InDelta(t, 20000, raw.Operations[1].Price, 1e-9)
	assert.InDelta(t, 0, raw.Operations[4].Price, 1e-9)

	clamped, err := New().Run(Request{
		Day:       d,
		Battery:   battery,
		Optimizer: optimizer.NameHeuristic,
		CleanMode: prices.ModeClamp,
	})
	require.NoError(t, err)
	assert.InDelta(t, prices.MarketCap, clamped.Operations[1].Price, 1e-9)
	assert.InDelta(t, prices.MarketFloor, clamped.Operations[2].Price, 1e-9)
	assert.InDelta(t, 0, clamped.Operations[4].Price, 1e-9)
}
