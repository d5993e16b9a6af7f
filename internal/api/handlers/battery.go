package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/models"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/config"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/logger"
)

// BatteryHandler lists the battery presets available to requests that
// reference them by battery_file.
type BatteryHandler struct {
	dir string
}

// NewBatteryHandler creates the handler. An empty dir falls back to
// BATTERY_DIR and then examples/batteries.
func NewBatteryHandler(dir string) *BatteryHandler {
	if dir == "" {
		dir = batteryDir()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &BatteryHandler{dir: dir}
}

// Dir returns the preset directory in use.
func (h *BatteryHandler) Dir() string {
	return h.dir
}

// List handles GET /api/v1/batteries. A missing or empty preset
// directory is an empty list, not an error.
func (h *BatteryHandler) List(c *gin.Context) {
	batteries := []models.BatteryInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		logger.S().Debugw("battery preset directory unreadable", "dir", h.dir, "err", err)
		c.JSON(http.StatusOK, gin.H{"batteries": batteries})
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		path := filepath.Join(h.dir, name)
		preset, err := config.LoadBatteryFile(path)
		if err != nil {
			logger.S().Warnw("skipping unreadable battery preset", "file", path, "err", err)
			continue
		}

		id := strings.TrimSuffix(name, ".yaml")
		display := preset.Name
		if display == "" {
			display = id
		}

		batteries = append(batteries, models.BatteryInfo{
			ID:   id,
			Name: display,
			File: name,
			Specs: models.BatterySpecs{
				CapacityMWh:         preset.CapacityMWh,
				PowerMW:             preset.PowerMW,
				RoundTripEfficiency: preset.RoundTrip(),
				MaxCycles:           preset.MaxCycles,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}
