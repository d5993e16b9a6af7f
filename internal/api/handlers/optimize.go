package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/models"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/config"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/logger"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/prices"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/store"
)

// OptimizeHandler runs single-day optimizations.
type OptimizeHandler struct {
	engine    *arb.Engine
	runs      store.RunRepository
	presetDir string
}

// NewOptimizeHandler creates the handler. runs may be nil; results are
// then not persisted.
func NewOptimizeHandler(engine *arb.Engine, runs store.RunRepository, presetDir string) *OptimizeHandler {
	return &OptimizeHandler{engine: engine, runs: runs, presetDir: presetDir}
}

// Optimize handles POST /api/v1/optimize.
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	day, ok := resolveDay(c, req.Day, req.Source)
	if !ok {
		return
	}

	battery, err := resolveBattery(h.presetDir, req.BatteryFile, req.Battery)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BATTERY", err.Error())
		return
	}

	res, err := h.engine.Run(arb.Request{
		Day:       day,
		Battery:   battery,
		Optimizer: req.Optimizer.Name,
		Params:    solverParams(req.Optimizer),
		CleanMode: prices.Mode(req.Options.PriceMode),
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	resp := models.OptimizeResponse{
		Status:      "completed",
		Region:      day.Region,
		Date:        day.Date,
		Summary:     models.NewSummary(res),
		Calibration: res.Calibration,
	}
	if req.Options.IncludeOperations {
		resp.Operations = res.Operations
		resp.SoCHistory = res.SoCHistory
	}
	if req.Options.IncludeReservation {
		resp.Reservation = res.Reservation
	}

	if h.runs != nil {
		rec := &store.RunRecord{
			ID:        store.NewRunID(),
			Region:    day.Region,
			Date:      day.Date,
			CreatedAt: time.Now().UTC(),
			Result:    res,
		}
		// A persistence failure is not worth failing the run over.
		if err := h.runs.SaveRun(rec); err != nil {
			logger.S().Warnw("persist run failed", "region", day.Region, "date", day.Date, "err", err)
		} else {
			resp.ID = rec.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Compare handles POST /api/v1/optimize/compare. Every variation runs
// against the same day; failures are reported per variation.
func (h *OptimizeHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Variations) == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one variation is required")
		return
	}

	day, ok := resolveDay(c, req.Day, req.Source)
	if !ok {
		return
	}

	base, err := resolveBattery(h.presetDir, req.BatteryFile, req.Battery)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BATTERY", err.Error())
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, v := range req.Variations {
		battery := base
		if v.Battery != nil {
			battery = config.MergeBattery(
				config.BatteryPreset{BatteryConfig: base},
				config.BatteryPreset{BatteryConfig: *v.Battery},
			).BatteryConfig
		}

		res, err := h.engine.Run(arb.Request{
			Day:       day,
			Battery:   battery,
			Optimizer: v.Optimizer.Name,
			Params:    solverParams(v.Optimizer),
			CleanMode: prices.Mode(req.Options.PriceMode),
		})
		if err != nil {
			comparison = append(comparison, models.ComparisonResult{
				Name:  v.Name,
				Error: err.Error(),
			})
			continue
		}

		s := models.NewSummary(res)
		comparison = append(comparison, models.ComparisonResult{
			Name:    v.Name,
			Summary: &s,
		})
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}
