package analysis

import (
	"sort"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

type RankedPotential struct {
	SpreadPotential
}

// RankByOracleProfit computes potentials per trading day and sorts
// descending by OracleProfit.
func RankByOracleProfit(days []model.TradingDay) []RankedPotential {
	out := make([]RankedPotential, 0, len(days))
	for _, day := range days {
		out = append(out, RankedPotential{SpreadPotential: ComputePotential(day)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OracleProfit > out[j].OracleProfit
	})
	return out
}
