// Package api assembles the HTTP surface: routing, middleware, handlers.
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/handlers"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/api/middleware"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/arb"
	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/store"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Engine *arb.Engine

	// Runs may be nil; optimize results are then not persisted and the
	// /runs endpoints respond 503.
	Runs store.RunRepository

	// BatteryDir holds preset YAML files; empty falls back to
	// BATTERY_DIR and then examples/batteries.
	BatteryDir string

	CORSOrigins []string

	// StaticDir, when set and present, is served for non-API routes
	// (the dashboard build).
	StaticDir string
}

// NewRouter builds the gin engine with all routes attached.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Engine == nil {
		deps.Engine = arb.New()
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	optimizeHandler := handlers.NewOptimizeHandler(deps.Engine, deps.Runs, deps.BatteryDir)
	sweepHandler := handlers.NewSweepHandler(deps.BatteryDir)
	potentialHandler := handlers.NewPotentialHandler()
	batteryHandler := handlers.NewBatteryHandler(deps.BatteryDir)
	optimizerHandler := handlers.NewOptimizerHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/optimize", optimizeHandler.Optimize)
		v1.POST("/optimize/compare", optimizeHandler.Compare)
		v1.POST("/sweep", sweepHandler.Sweep)
		v1.POST("/potential", potentialHandler.Potential)

		v1.GET("/batteries", batteryHandler.List)
		v1.GET("/optimizers", optimizerHandler.List)
		v1.GET("/regions", handlers.ListRegions)

		if deps.Runs != nil {
			runsHandler := handlers.NewRunsHandler(deps.Runs)
			v1.GET("/runs", runsHandler.List)
			v1.GET("/runs/:id", runsHandler.Get)
			v1.GET("/runs/:id/operations", runsHandler.GetOperations)
			v1.DELETE("/runs/:id", runsHandler.Delete)
		} else {
			unavailable := func(c *gin.Context) {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error": gin.H{
						"code":    "STORE_DISABLED",
						"message": "run persistence is not configured",
					},
				})
			}
			v1.GET("/runs", unavailable)
			v1.GET("/runs/:id", unavailable)
			v1.GET("/runs/:id/operations", unavailable)
			v1.DELETE("/runs/:id", unavailable)
		}
	}

	attachStatic(router, deps.StaticDir)

	return router
}

// attachStatic serves the dashboard build, if present, with SPA-style
// fallback to index.html for non-API paths.
func attachStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}
	if _, err := os.Stat(staticDir); err != nil {
		return
	}

	router.Static("/assets", staticDir+"/assets")
	router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "no such endpoint",
			}})
			return
		}
		c.File(staticDir + "/index.html")
	})
}
