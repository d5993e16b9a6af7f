// Package handlers implements the /api/v1 endpoint handlers.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/models"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/config"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/data"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/optimizer"
)

// respondError writes the JSON error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondEngineError maps engine failures onto HTTP statuses: invalid
// input is the caller's fault, anything else is ours.
func respondEngineError(c *gin.Context, err error) {
	var cfgErr *model.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", cfgErr.Error())
	case errors.Is(err, model.ErrInsufficientData):
		respondError(c, http.StatusBadRequest, "INSUFFICIENT_DATA", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "OPTIMIZE_ERROR", err.Error())
	}
}

// respondPriceAPIError forwards a price-service failure, preserving the
// status class where it matters to the caller.
func respondPriceAPIError(c *gin.Context, err error) {
	var apiErr *data.PriceAPIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadRequest
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			status = http.StatusUnauthorized
		case http.StatusNotFound:
			status = http.StatusNotFound
		case http.StatusTooManyRequests:
			status = http.StatusTooManyRequests
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: map[string]interface{}{
					"status_code": apiErr.StatusCode,
					"retry_after": apiErr.RetryAfter,
				},
			},
		})
		return
	}
	respondError(c, http.StatusBadRequest, "DATA_FETCH_ERROR", err.Error())
}

// resolveDay picks inline prices or fetches them from the price API. On
// failure the response has already been written and ok is false.
func resolveDay(c *gin.Context, inline *models.DayPayload, src *models.SourceConfig) (model.TradingDay, bool) {
	switch {
	case inline != nil:
		return inline.ToTradingDay(), true
	case src != nil:
		client := data.NewPriceClient(src.APIKey, os.Getenv("PRICE_API_URL"))
		day, err := client.FetchDay(src.Region, src.Date)
		if err != nil {
			respondPriceAPIError(c, err)
			return model.TradingDay{}, false
		}
		return day, true
	}
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "either day or source is required")
	return model.TradingDay{}, false
}

// batteryDir resolves the preset directory: BATTERY_DIR first, then
// examples/batteries under the working directory.
func batteryDir() string {
	if dir := os.Getenv("BATTERY_DIR"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".", "examples", "batteries")
	}
	return filepath.Join(wd, "examples", "batteries")
}

// resolveBattery loads the named preset from dir, if any, and overlays
// the request's non-zero battery fields on top of it.
func resolveBattery(dir, file string, override model.BatteryConfig) (model.BatteryConfig, error) {
	if file == "" {
		return override, nil
	}
	if dir == "" {
		dir = batteryDir()
	}
	path := file
	if filepath.Ext(path) == "" {
		path += ".yaml"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	preset, err := config.LoadBatteryFile(path)
	if err != nil {
		return model.BatteryConfig{}, fmt.Errorf("battery file %s: %w", file, err)
	}
	merged := config.MergeBattery(preset, config.BatteryPreset{BatteryConfig: override})
	return merged.BatteryConfig, nil
}

// solverParams maps the wire payload onto solver parameters.
func solverParams(p models.OptimizerPayload) optimizer.Params {
	return optimizer.Params{
		SoCLevels:      p.SoCLevels,
		SalvageRate:    p.SalvageRate,
		ThroughputCost: p.ThroughputCost,
		MaxIterations:  p.MaxIterations,
		CycleTolerance: p.CycleTolerance,
	}
}
