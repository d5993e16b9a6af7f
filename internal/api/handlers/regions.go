package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/data"
)

// ListRegions handles GET /api/v1/regions.
func ListRegions(c *gin.Context) {
	regions := data.Regions()
	c.JSON(http.StatusOK, gin.H{
		"regions": regions,
		"count":   len(regions),
	})
}
