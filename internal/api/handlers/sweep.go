package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/models"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/batch"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
)

// SweepHandler fans one setup out over many days.
type SweepHandler struct {
	presetDir string
}

// NewSweepHandler creates the handler.
func NewSweepHandler(presetDir string) *SweepHandler {
	return &SweepHandler{presetDir: presetDir}
}

// Sweep handles POST /api/v1/sweep.
func (h *SweepHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Days) == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one day is required")
		return
	}

	battery, err := resolveBattery(h.presetDir, req.BatteryFile, req.Battery)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BATTERY", err.Error())
		return
	}

	days := make([]model.TradingDay, len(req.Days))
	for i, d := range req.Days {
		days[i] = d.ToTradingDay()
	}

	base := arb.Request{
		Battery:   battery,
		Optimizer: req.Optimizer.Name,
		Params:    solverParams(req.Optimizer),
		CleanMode: prices.Mode(req.Options.PriceMode),
	}

	runner := batch.NewRunner(batch.Options{
		Workers: req.Workers,
		Timeout: time.Duration(req.TimeoutMS) * time.Millisecond,
	})
	results := runner.Sweep(c.Request.Context(), base, days)

	resp := models.SweepResponse{
		Days:   make([]models.SweepDayResult, len(results)),
		Totals: models.SweepTotals{Days: len(results)},
	}
	for i, r := range results {
		slot := models.SweepDayResult{
			Region:    r.Region,
			Date:      r.Date,
			ElapsedMS: r.Elapsed.Milliseconds(),
		}
		if r.Err != nil {
			slot.Error = r.Err.Error()
			resp.Totals.Failed++
		} else {
			s := models.NewSummary(r.Result)
			slot.Summary = &s
			resp.Totals.Revenue += r.Result.Revenue
			resp.Totals.Cycles += r.Result.Cycles
		}
		resp.Days[i] = slot
	}

	c.JSON(http.StatusOK, resp)
}
