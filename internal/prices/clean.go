// Package prices sanitizes raw dispatch-price series before optimization.
package prices

import "math"

// NEM market price floor and cap, $/MWh.
const (
	MarketFloor = -1000.0
	MarketCap   = 16600.0
)

// A value deviating from its local neighborhood average by more than the
// threshold is treated as a spike.
const (
	despikeWindow    = 2
	despikeThreshold = 500.0
)

// Mode selects how Clean treats extreme values after missing-value
// substitution.
type Mode string

const (
	// ModeRaw passes every finite value through unchanged.
	ModeRaw Mode = "raw"
	// ModeClamp floors and caps values at the NEM market limits.
	ModeClamp Mode = "clamp"
	// ModeDespike replaces short isolated excursions with the local
	// neighborhood average.
	ModeDespike Mode = "despike"
)

func (m Mode) Valid() bool {
	switch m {
	case "", ModeRaw, ModeClamp, ModeDespike:
		return true
	}
	return false
}

// Clean returns a same-length copy of the series with missing values
// (NaN or infinities) substituted by zero and the mode's treatment applied.
// The empty mode means raw. The input is never modified.
func Clean(series []float64, mode Mode) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[i] = v
	}

	switch mode {
	case ModeClamp:
		for i, v := range out {
			if v < MarketFloor {
				out[i] = MarketFloor
			} else if v > MarketCap {
				out[i] = MarketCap
			}
		}
	case ModeDespike:
		// Averages are taken over the substituted input, not over already
		// despiked values, so each point is independent of visit order.
		base := make([]float64, len(out))
		copy(base, out)
		for i := range out {
			avg := windowMean(base, i)
			if math.Abs(base[i]-avg) > despikeThreshold {
				out[i] = avg
			}
		}
	}
	return out
}

// windowMean averages base[i-despikeWindow .. i+despikeWindow] inclusive,
// clamping the window at the series edges.
func windowMean(base []float64, i int) float64 {
	lo := i - despikeWindow
	if lo < 0 {
		lo = 0
	}
	hi := i + despikeWindow
	if hi > len(base)-1 {
		hi = len(base) - 1
	}
	sum := 0.0
	for j := lo; j <= hi; j++ {
		sum += base[j]
	}
	return sum / float64(hi-lo+1)
}
