package main

import (
	"flag"
	"fmt"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/sim"
)

// Demo:
// - build a synthetic NSW1 trading day with a solar trough and an evening peak
// - run the DP and heuristic optimizers on the same battery
// - print the head of the DP dispatch trace and compare the two results
func main() {
	n := flag.Int("n", 12, "Number of trace rows to print")
	outCSV := flag.String("out", "", "Optional path to write the dispatch trace CSV")
	flag.Parse()

	day := syntheticDay()
	battery := model.BatteryConfig{
		CapacityMWh:         100,
		PowerMW:             50,
		RoundTripEfficiency: 0.90,
		MaxCycles:           1.5,
	}

	engine := arb.New()

	exact, err := engine.Run(arb.Request{
		Day:       day,
		Battery:   battery,
		CleanMode: prices.ModeDespike,
	})
	if err != nil {
		panic(err)
	}

	greedy, err := engine.Run(arb.Request{
		Day:       day,
		Battery:   battery,
		Optimizer: "heuristic",
		CleanMode: prices.ModeDespike,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Synthetic %s %s: %d x %dmin intervals\n", day.Region, day.Date, len(day.Intervals), day.IntervalMinutes)
	fmt.Printf("Battery: %.0f MWh / %.0f MW, round trip %.0f%%, %.1f cycles/day\n\n",
		battery.CapacityMWh, battery.PowerMW, battery.RoundTrip()*100, battery.MaxCycles)

	if *n > len(exact.Operations) {
		*n = len(exact.Operations)
	}
	for _, op := range exact.Operations[:*n] {
		fmt.Printf(
			"%s price=%8.2f  action=%-9s  grid=%6.2fMW  soc=%6.1f>%6.1f  rev=%9.2f  cum=%9.2f\n",
			op.Time,
			op.Price,
			string(op.Action),
			op.GridPowerMW,
			op.SoCStartMWh,
			op.SoCEndMWh,
			op.Revenue,
			op.CumulativeRevenue,
		)
	}

	fmt.Printf("\ndp:        revenue=$%.2f cycles=%.2f spread=$%.2f/MWh\n",
		exact.Revenue, exact.Cycles, exact.RealizedSpread)
	fmt.Printf("heuristic: revenue=$%.2f cycles=%.2f spread=$%.2f/MWh\n",
		greedy.Revenue, greedy.Cycles, greedy.RealizedSpread)
	if exact.Calibration != nil {
		fmt.Printf("calibrated throughput cost: $%.2f/MWh in %d iterations\n",
			exact.Calibration.ThroughputCost, exact.Calibration.Iterations)
	}

	if *outCSV != "" {
		if err := sim.WriteOperationsCSV(*outCSV, exact.Operations); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}

// syntheticDay is a 48x30min day: soft overnight prices, a negative midday
// solar trough and a hard evening peak.
func syntheticDay() model.TradingDay {
	series := []float64{
		46, 44, 42, 41, 40, 39, 38, 38, 37, 36, 36, 38,
		42, 48, 61, 74, 88, 92, 84, 70,
		52, 38, 24, 12, 2, -8, -14, -18, -12, -4,
		14, 36, 58, 86, 120, 168,
		310, 452, 388, 262,
		170, 128, 96, 82, 74, 66, 58, 52,
	}
	day := model.TradingDay{
		Region:          "NSW1",
		Date:            "2024-01-15",
		IntervalMinutes: 30,
		Intervals:       make([]model.PriceInterval, len(series)),
	}
	for i, p := range series {
		day.Intervals[i] = model.PriceInterval{
			Index: i,
			Time:  fmt.Sprintf("%02d:%02d", i/2, 30*(i%2)),
			Price: p,
		}
	}
	return day
}
