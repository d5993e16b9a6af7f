package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/models"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/optimizer"
)

// OptimizerHandler lists the selectable optimizers.
type OptimizerHandler struct{}

// NewOptimizerHandler creates the handler.
func NewOptimizerHandler() *OptimizerHandler {
	return &OptimizerHandler{}
}

// dpParameters documents the DP solver's tunables; the heuristic takes
// none.
var dpParameters = []models.ParameterInfo{
	{
		Name:        "soc_levels",
		Type:        "int",
		Description: "Number of state-of-charge grid points over [0, capacity] (higher = more accurate but slower)",
		Default:     optimizer.DefaultSoCLevels,
	},
	{
		Name:        "salvage_rate",
		Type:        "float",
		Description: "Value of energy left in the battery at end of day, $/MWh. Omit to use 10% of the day's mean price",
	},
	{
		Name:        "throughput_cost",
		Type:        "float",
		Description: "Fixed cycling penalty, $/MWh discharged. Omit to calibrate against the battery's max_cycles",
	},
	{
		Name:        "max_iterations",
		Type:        "int",
		Description: "Bisection iteration cap for throughput-cost calibration",
		Default:     optimizer.DefaultMaxIterations,
	},
	{
		Name:        "cycle_tolerance",
		Type:        "float",
		Description: "Cycle-count band treated as converged during calibration",
		Default:     optimizer.DefaultCycleTolerance,
	},
}

// List handles GET /api/v1/optimizers.
func (h *OptimizerHandler) List(c *gin.Context) {
	descriptors := optimizer.Descriptors()

	infos := make([]models.OptimizerInfo, len(descriptors))
	for i, d := range descriptors {
		info := models.OptimizerInfo{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  []models.ParameterInfo{},
		}
		if d.Name == optimizer.NameDP {
			info.Parameters = dpParameters
		}
		infos[i] = info
	}

	c.JSON(http.StatusOK, gin.H{"optimizers": infos})
}
