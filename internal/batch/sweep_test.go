package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/optimizer"
)

func sweepDay(date string, series ...float64) model.TradingDay {
	d := model.TradingDay{Region: "NSW1", Date: date, IntervalMinutes: 60}
	for i, p := range series {
		d.Intervals = append(d.Intervals, model.PriceInterval{Index: i, Price: p})
	}
	return d
}

func sweepBase() arb.Request {
	return arb.Request{
		Battery: model.BatteryConfig{
			CapacityMWh:         10,
			PowerMW:             5,
			RoundTripEfficiency: 0.9,
		},
		Optimizer: optimizer.NameHeuristic,
	}
}

func TestSweep_KeepsInputOrder(t *testing.T) {
	days := []model.TradingDay{
		sweepDay("2024-01-01", 50, 10, 50, 90, 50),
		sweepDay("2024-01-02", 40, 20, 40, 80, 40),
		sweepDay("2024-01-03", 30, 5, 30, 70, 30),
	}

	results := NewRunner(Options{Workers: 2}).Sweep(context.Background(), sweepBase(), days)

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, days[i].Date, r.Date, "slot %d", i)
		assert.NoError(t, r.Err, "slot %d", i)
		require.NotNil(t, r.Result, "slot %d", i)
	}
	assert.Empty(t, Failed(results))
}

func TestSweep_IsolatesFailures(t *testing.T) {
	days := []model.TradingDay{
		sweepDay("2024-01-01", 50, 10, 50, 90, 50),
		sweepDay("2024-01-02", 42),
		sweepDay("2024-01-03", 30, 5, 30, 70, 30),
	}

	results := NewRunner(Options{Workers: 3}).Sweep(context.Background(), sweepBase(), days)

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, model.ErrInsufficientData)
	assert.NoError(t, results[2].Err)

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "2024-01-02", failed[0].Date)
}

func TestSweep_CancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	days := []model.TradingDay{
		sweepDay("2024-01-01", 50, 10, 50),
		sweepDay("2024-01-02", 50, 10, 50),
	}

	results := NewRunner(Options{Workers: 1}).Sweep(ctx, sweepBase(), days)

	for i, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled, "slot %d", i)
		assert.Nil(t, r.Result, "slot %d", i)
	}
}

func TestSweep_PerDayTimeout(t *testing.T) {
	// A nanosecond deadline expires before the DP solve can finish, so the
	// slot reports the deadline instead of a result.
	series := make([]float64, 288)
	for i := range series {
		series[i] = float64(10 + (i%24)*5)
	}
	day := model.TradingDay{Region: "NSW1", Date: "2024-01-01", IntervalMinutes: 5}
	for i, p := range series {
		day.Intervals = append(day.Intervals, model.PriceInterval{Index: i, Price: p})
	}

	base := sweepBase()
	base.Optimizer = optimizer.NameDP

	results := NewRunner(Options{Workers: 1, Timeout: time.Nanosecond}).
		Sweep(context.Background(), base, []model.TradingDay{day})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
}
