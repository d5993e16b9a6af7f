package optimizer

import (
	"math"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

const (
	// DefaultSoCLevels discretizes [0, CapacityMWh] into steps of
	// capacity/200.
	DefaultSoCLevels = 201

	// DefaultSalvageShare values terminal SoC at this share of the mean
	// price when no explicit salvage rate is given.
	DefaultSalvageShare = 0.10

	DefaultMaxIterations  = 50
	DefaultCycleTolerance = 0.01

	// reservationSmoothWidth is the centered moving-average width applied
	// to the reservation-price series.
	reservationSmoothWidth = 5

	energyEps = 1e-9
)

// Params tune the DP solver. The zero value selects all defaults.
type Params struct {
	// SoCLevels is the number of grid points over [0, CapacityMWh].
	SoCLevels int

	// SalvageRate values terminal SoC in $/MWh. Nil means DefaultSalvageShare
	// of the mean price over the series.
	SalvageRate *float64

	// ThroughputCost fixes the per-MWh cycling penalty. Nil means calibrate
	// by bisection until realized cycles fit under the battery's MaxCycles.
	ThroughputCost *float64

	// MaxIterations bounds the bisection search.
	MaxIterations int

	// CycleTolerance is the absolute cycle-count band that counts as
	// converged.
	CycleTolerance float64
}

func (p Params) withDefaults() Params {
	if p.SoCLevels < 2 {
		p.SoCLevels = DefaultSoCLevels
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = DefaultMaxIterations
	}
	if p.CycleTolerance <= 0 {
		p.CycleTolerance = DefaultCycleTolerance
	}
	return p
}

// DP is the exact solver: backward-induction value functions over a
// discretized SoC grid, with a bisection-calibrated throughput cost that
// discourages cycling beyond the battery's daily target.
type DP struct {
	params Params
}

func NewDP(params Params) *DP {
	return &DP{params: params.withDefaults()}
}

func (o *DP) Name() string { return NameDP }

func (o *DP) Optimize(series []float64, cfg model.BatteryConfig, dtHours float64) (*Schedule, error) {
	if err := checkInput(series, cfg, dtHours); err != nil {
		return nil, err
	}

	salvage := o.salvageRate(series)

	// A fixed throughput cost skips calibration entirely.
	if o.params.ThroughputCost != nil {
		sol := o.solve(series, cfg, dtHours, salvage, *o.params.ThroughputCost)
		return sol.schedule(&model.Calibration{
			ThroughputCost: *o.params.ThroughputCost,
			RealizedCycles: sol.cycles,
			Converged:      true,
		}), nil
	}

	// Uncapped cycling needs no penalty.
	if cfg.MaxCycles <= 0 {
		sol := o.solve(series, cfg, dtHours, salvage, 0)
		return sol.schedule(&model.Calibration{
			RealizedCycles: sol.cycles,
			Converged:      true,
		}), nil
	}

	sol, cal := o.calibrate(series, cfg, dtHours, salvage)
	return sol.schedule(cal), nil
}

func (o *DP) salvageRate(series []float64) float64 {
	if o.params.SalvageRate != nil {
		return *o.params.SalvageRate
	}
	sum := 0.0
	for _, p := range series {
		sum += p
	}
	return DefaultSalvageShare * sum / float64(len(series))
}

// calibrate finds the smallest throughput cost whose realized cycle count
// fits under MaxCycles. Realized cycles are monotonic non-increasing in the
// cost, so a plain bisection over [0, price range] suffices. Exhausting the
// iteration budget returns the best candidate flagged as non-converged
// rather than failing; a best-effort schedule is still useful.
func (o *DP) calibrate(series []float64, cfg model.BatteryConfig, dtHours, salvage float64) (dpSolution, *model.Calibration) {
	target := cfg.MaxCycles
	tol := o.params.CycleTolerance

	lo := 0.0
	sol := o.solve(series, cfg, dtHours, salvage, lo)
	if sol.cycles <= target {
		return sol, &model.Calibration{
			RealizedCycles: sol.cycles,
			Converged:      true,
		}
	}

	hi := priceRange(series)
	best := o.solve(series, cfg, dtHours, salvage, hi)
	bestCost := hi
	if best.cycles > target+tol {
		// Even the maximum penalty cannot reach the target. Pathological
		// input; report what we have.
		return best, &model.Calibration{
			ThroughputCost: hi,
			RealizedCycles: best.cycles,
			Converged:      false,
		}
	}

	for i := 1; i <= o.params.MaxIterations; i++ {
		mid := (lo + hi) / 2
		cand := o.solve(series, cfg, dtHours, salvage, mid)
		if cand.cycles <= target {
			hi, best, bestCost = mid, cand, mid
		} else {
			lo = mid
		}
		if math.Abs(cand.cycles-target) <= tol {
			return cand, &model.Calibration{
				ThroughputCost: mid,
				Iterations:     i,
				RealizedCycles: cand.cycles,
				Converged:      true,
			}
		}
	}

	return best, &model.Calibration{
		ThroughputCost: bestCost,
		Iterations:     o.params.MaxIterations,
		RealizedCycles: best.cycles,
		Converged:      false,
	}
}

func priceRange(series []float64) float64 {
	lo, hi := series[0], series[0]
	for _, p := range series[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return hi - lo
}

// action codes packed one byte per (t, s) cell.
const (
	actIdle uint8 = iota
	actCharge
	actDischarge
)

type dpSolution struct {
	decisions    []model.Decision
	cycles       float64
	resCharge    []float64
	resDischarge []float64
}

func (s dpSolution) schedule(cal *model.Calibration) *Schedule {
	return &Schedule{
		Decisions: s.decisions,
		Reservation: &model.ReservationPrices{
			Charge:    s.resCharge,
			Discharge: s.resDischarge,
		},
		Calibration: cal,
	}
}

// solve runs one backward induction plus forward replay at a fixed
// throughput cost.
//
// The value grid is a single contiguous buffer indexed by t*levels+s, per
// interval t in [0, n] (row n is the terminal salvage row) and SoC level s.
// Off-grid landings interpolate linearly between the two nearest levels.
func (o *DP) solve(series []float64, cfg model.BatteryConfig, dtHours, salvage, throughputCost float64) dpSolution {
	n := len(series)
	levels := o.params.SoCLevels
	step := cfg.CapacityMWh / float64(levels-1)
	etaC, etaD := cfg.Legs()

	values := make([]float64, (n+1)*levels)
	choices := make([]uint8, n*levels)

	// Terminal state: remaining energy is worth the salvage rate, so the
	// solver does not dump everything just before close.
	term := n * levels
	for s := 0; s < levels; s++ {
		values[term+s] = float64(s) * step * salvage
	}

	for t := n - 1; t >= 0; t-- {
		price := series[t]
		row := t * levels
		next := values[row+levels : row+2*levels]

		for s := 0; s < levels; s++ {
			soc := float64(s) * step

			best := next[s]
			act := actIdle

			if eGrid := cfg.MaxChargeGridMWh(soc, dtHours); eGrid > energyEps {
				landing := soc + eGrid*etaC
				v := -price*eGrid - throughputCost*eGrid + interpolate(next, landing, step)
				if v > best {
					best, act = v, actCharge
				}
			}
			if eDrawn := cfg.MaxDischargeDrawnMWh(soc, dtHours); eDrawn > energyEps {
				landing := soc - eDrawn
				v := price*eDrawn*etaD - throughputCost*eDrawn + interpolate(next, landing, step)
				if v > best {
					best, act = v, actDischarge
				}
			}

			values[row+s] = best
			choices[row+s] = act
		}
	}

	return o.replay(series, cfg, dtHours, throughputCost, values, choices)
}

// replay walks the recorded best actions forward from the initial SoC.
// The grid lookup uses the nearest level, but execution applies the exact
// energy formulas to the actual continuous SoC, so the emitted schedule
// never relies on the discretization.
func (o *DP) replay(series []float64, cfg model.BatteryConfig, dtHours, throughputCost float64, values []float64, choices []uint8) dpSolution {
	n := len(series)
	levels := o.params.SoCLevels
	step := cfg.CapacityMWh / float64(levels-1)
	etaC, etaD := cfg.Legs()
	energyPerStep := cfg.PowerMW * dtHours

	soc := snapToGrid(cfg.InitialSoCMWh, step, levels)
	decisions := make([]model.Decision, n)
	resCharge := make([]float64, n)
	resDischarge := make([]float64, n)

	var storedIn, drawnOut float64

	for t := 0; t < n; t++ {
		row := t * levels
		next := values[row+levels : row+2*levels]

		// Reservation thresholds at the replay SoC: the price at which
		// charging (below) or discharging (above) overtakes holding.
		hold := interpolate(next, soc, step)
		chargeLanding := math.Min(cfg.CapacityMWh, soc+energyPerStep*etaC)
		resCharge[t] = (interpolate(next, chargeLanding, step) - hold - throughputCost*energyPerStep) / energyPerStep
		dischargeLanding := math.Max(0, soc-energyPerStep)
		resDischarge[t] = (hold - interpolate(next, dischargeLanding, step) + throughputCost*energyPerStep) / (energyPerStep * etaD)

		level := nearestLevel(soc, step, levels)
		decisions[t] = model.Idle()

		switch choices[row+level] {
		case actCharge:
			eGrid := cfg.MaxChargeGridMWh(soc, dtHours)
			if eGrid > energyEps {
				decisions[t] = model.Decision{Action: model.ActionCharge, PowerMW: eGrid / dtHours}
				soc += eGrid * etaC
				storedIn += eGrid * etaC
			}
		case actDischarge:
			eDrawn := cfg.MaxDischargeDrawnMWh(soc, dtHours)
			if eDrawn > energyEps {
				decisions[t] = model.Decision{Action: model.ActionDischarge, PowerMW: eDrawn / dtHours}
				soc -= eDrawn
				drawnOut += eDrawn
			}
		}
	}

	return dpSolution{
		decisions:    decisions,
		cycles:       math.Min(storedIn, drawnOut) / cfg.CapacityMWh,
		resCharge:    smooth(resCharge, reservationSmoothWidth),
		resDischarge: smooth(resDischarge, reservationSmoothWidth),
	}
}

// interpolate reads the value row at an off-grid SoC.
func interpolate(row []float64, socMWh, step float64) float64 {
	pos := socMWh / step
	lo := int(pos)
	if lo < 0 {
		return row[0]
	}
	if lo >= len(row)-1 {
		return row[len(row)-1]
	}
	frac := pos - float64(lo)
	return row[lo]*(1-frac) + row[lo+1]*frac
}

func nearestLevel(socMWh, step float64, levels int) int {
	s := int(math.Round(socMWh / step))
	if s < 0 {
		return 0
	}
	if s > levels-1 {
		return levels - 1
	}
	return s
}

func snapToGrid(socMWh, step float64, levels int) float64 {
	return float64(nearestLevel(socMWh, step, levels)) * step
}

// smooth applies a centered moving average with edge-clamped windows.
func smooth(series []float64, width int) []float64 {
	half := width / 2
	out := make([]float64, len(series))
	for i := range series {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(series)-1 {
			hi = len(series) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += series[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}
