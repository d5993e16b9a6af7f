package optimizer

import (
	"math"
	"sort"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// Heuristic is the greedy trough/peak matcher. It pairs the cheapest local
// troughs with the best later peaks, reserving a full-capacity window around
// each, and idles everywhere else. O(n log n) against the DP's exhaustive
// grid, at the cost of optimality.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Name() string { return NameHeuristic }

type extremum struct {
	index int
	price float64
}

type pairing struct {
	chargeAt    int
	dischargeAt int
}

func (h *Heuristic) Optimize(series []float64, cfg model.BatteryConfig, dtHours float64) (*Schedule, error) {
	if err := checkInput(series, cfg, dtHours); err != nil {
		return nil, err
	}

	n := len(series)
	troughs, peaks := findExtrema(series)

	sort.SliceStable(troughs, func(i, j int) bool { return troughs[i].price < troughs[j].price })
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].price > peaks[j].price })

	// Window long enough to move the full capacity at rated power.
	need := int(math.Ceil((cfg.CapacityMWh / cfg.PowerMW) / dtHours))
	legEff := math.Sqrt(cfg.RoundTrip())

	maxPairs := n
	if cfg.MaxCycles > 0 {
		maxPairs = int(cfg.MaxCycles)
	}

	used := make([]bool, n)
	var pairs []pairing

	for _, tr := range troughs {
		if len(pairs) >= maxPairs {
			break
		}
		if windowTaken(used, tr.index, need) {
			continue
		}
		for _, pk := range peaks {
			if pk.index <= tr.index+need {
				continue
			}
			if pk.price*legEff-tr.price <= 0 {
				continue
			}
			if windowTaken(used, pk.index, need) {
				continue
			}
			markWindow(used, tr.index, need)
			markWindow(used, pk.index, need)
			pairs = append(pairs, pairing{chargeAt: tr.index, dischargeAt: pk.index})
			break
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].chargeAt < pairs[j].chargeAt })

	decisions := make([]model.Decision, n)
	for i := range decisions {
		decisions[i] = model.Idle()
	}
	for _, p := range pairs {
		fillWindow(decisions, p.chargeAt, need, model.Decision{Action: model.ActionCharge, PowerMW: cfg.PowerMW})
		fillWindow(decisions, p.dischargeAt, need, model.Decision{Action: model.ActionDischarge, PowerMW: cfg.PowerMW})
	}

	return &Schedule{Decisions: decisions}, nil
}

// findExtrema scans the interior of the series for local troughs and peaks.
// Plateaus qualify on both sides; the positive-spread filter in the pairing
// loop discards the degenerate flat-on-flat matches.
func findExtrema(series []float64) (troughs, peaks []extremum) {
	for i := 1; i < len(series)-1; i++ {
		if series[i] <= series[i-1] && series[i] <= series[i+1] {
			troughs = append(troughs, extremum{index: i, price: series[i]})
		}
		if series[i] >= series[i-1] && series[i] >= series[i+1] {
			peaks = append(peaks, extremum{index: i, price: series[i]})
		}
	}
	return troughs, peaks
}

func windowTaken(used []bool, start, need int) bool {
	for k := start; k < start+need && k < len(used); k++ {
		if used[k] {
			return true
		}
	}
	return false
}

func markWindow(used []bool, start, need int) {
	for k := start; k < start+need && k < len(used); k++ {
		used[k] = true
	}
}

func fillWindow(decisions []model.Decision, start, need int, d model.Decision) {
	for k := start; k < start+need && k < len(decisions); k++ {
		decisions[k] = d
	}
}
