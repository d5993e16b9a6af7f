package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/store"
)

// RunsHandler serves persisted optimization runs so the dashboard can
// re-fetch traces without re-solving.
type RunsHandler struct {
	runs store.RunRepository
}

// NewRunsHandler creates the handler.
func NewRunsHandler(runs store.RunRepository) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// List handles GET /api/v1/runs.
func (h *RunsHandler) List(c *gin.Context) {
	summaries, err := h.runs.ListRuns()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if summaries == nil {
		summaries = []store.RunSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": summaries})
}

// Get handles GET /api/v1/runs/:id.
func (h *RunsHandler) Get(c *gin.Context) {
	rec, err := h.runs.GetRun(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if rec == nil {
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "no run with that id")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetOperations handles GET /api/v1/runs/:id/operations: just the trace,
// for plotting.
func (h *RunsHandler) GetOperations(c *gin.Context) {
	rec, err := h.runs.GetRun(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if rec == nil || rec.Result == nil {
		respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "no run with that id")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          rec.ID,
		"operations":  rec.Result.Operations,
		"soc_history": rec.Result.SoCHistory,
	})
}

// Delete handles DELETE /api/v1/runs/:id.
func (h *RunsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.runs.DeleteRun(id); err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			respondError(c, http.StatusNotFound, "RUN_NOT_FOUND", "no run with that id")
			return
		}
		respondError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}
