package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/analysis"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/models"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// PotentialHandler ranks days by price statistics alone.
type PotentialHandler struct{}

// NewPotentialHandler creates the handler.
func NewPotentialHandler() *PotentialHandler {
	return &PotentialHandler{}
}

// Potential handles POST /api/v1/potential.
func (h *PotentialHandler) Potential(c *gin.Context) {
	var req models.PotentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Days) == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one day is required")
		return
	}

	days := make([]model.TradingDay, len(req.Days))
	for i, d := range req.Days {
		days[i] = d.ToTradingDay()
	}

	ranked := analysis.RankByOracleProfit(days)
	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:         i + 1,
			Region:       r.Region,
			Date:         r.Date,
			Count:        r.Count,
			MinPrice:     r.MinPrice,
			MaxPrice:     r.MaxPrice,
			MeanPrice:    r.MeanPrice,
			P05Price:     r.P05Price,
			P95Price:     r.P95Price,
			SpreadP95P05: r.SpreadP95P05,
			OracleProfit: r.OracleProfit,
		}
	}

	c.JSON(http.StatusOK, models.PotentialResponse{Rankings: rankings})
}
