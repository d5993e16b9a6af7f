package analysis

import (
	"math"
	"sort"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
)

// SpreadPotential is a day-level summary you can use for ranking.
// It intentionally does not depend on a specific battery size; it includes
// both raw price stats and an "oracle" profit for a canonical 1MW/1MWh unit.
type SpreadPotential struct {
	Region string `json:"region"`
	Date   string `json:"date"`
	Count  int    `json:"count"`

	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MeanPrice float64 `json:"mean_price"`
	P05Price  float64 `json:"p05_price"`
	P95Price  float64 `json:"p95_price"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	// OracleProfit is the profit ($) from a canonical battery:
	// - 1 MW power, 1 MWh energy
	// - 100% efficiency, no cycling penalty
	// - initial SoC 0.5 MWh
	// - dispatch choices {-1, 0, +1} MW each interval
	OracleProfit float64 `json:"oracle_profit"`
}

// ComputePotential summarizes one trading day. Missing values are
// substituted with zero before aggregation.
func ComputePotential(day model.TradingDay) SpreadPotential {
	p := SpreadPotential{Region: day.Region, Date: day.Date}
	series := prices.Clean(day.Prices(), prices.ModeRaw)
	if len(series) == 0 {
		return p
	}
	p.Count = len(series)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(series))
	for _, v := range series {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	p.MinPrice = minv
	p.MaxPrice = maxv
	p.MeanPrice = sum / float64(len(vals))
	p.P05Price = percentileSorted(vals, 0.05)
	p.P95Price = percentileSorted(vals, 0.95)
	p.SpreadP95P05 = p.P95Price - p.P05Price

	p.OracleProfit = oracleProfitCanonical(series, day.IntervalHours())
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// oracleProfitCanonical computes a best-effort upper bound using a simple DP:
// SoC discretized into steps of dt (since P=1MW, E=1MWh).
func oracleProfitCanonical(series []float64, dtHours float64) float64 {
	if len(series) == 0 || dtHours <= 0 {
		return 0
	}
	steps := int(math.Round(1.0 / dtHours))
	if steps < 1 {
		steps = 1
	}
	// SoC grid: 0..steps (inclusive) maps to soc = i/steps MWh.
	nStates := steps + 1
	negInf := -1e100
	dp := make([]float64, nStates)
	next := make([]float64, nStates)
	for i := range dp {
		dp[i] = negInf
	}
	init := int(math.Round(0.5 * float64(steps)))
	dp[init] = 0

	for _, price := range series {
		for i := range next {
			next[i] = negInf
		}

		for socIdx := 0; socIdx <= steps; socIdx++ {
			if dp[socIdx] <= negInf/2 {
				continue
			}

			// Idle
			if dp[socIdx] > next[socIdx] {
				next[socIdx] = dp[socIdx]
			}

			// Charge: -1MW for dt hours buys dt MWh.
			if socIdx < steps {
				v := dp[socIdx] - price*dtHours
				if v > next[socIdx+1] {
					next[socIdx+1] = v
				}
			}

			// Discharge: +1MW for dt hours sells dt MWh.
			if socIdx > 0 {
				v := dp[socIdx] + price*dtHours
				if v > next[socIdx-1] {
					next[socIdx-1] = v
				}
			}
		}
		dp, next = next, dp
	}

	best := negInf
	for _, v := range dp {
		if v > best {
			best = v
		}
	}
	if best <= negInf/2 {
		return 0
	}
	return best
}
