package store

import (
	"errors"
	"time"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// RunRecord is one persisted optimization run.
type RunRecord struct {
	ID        string                    `json:"id"`
	Region    string                    `json:"region"`
	Date      string                    `json:"date"`
	CreatedAt time.Time                 `json:"created_at"`
	Result    *model.OptimizationResult `json:"result"`
}

// RunSummary is the listing projection of a record; operation traces stay
// out of list responses.
type RunSummary struct {
	ID        string    `json:"id"`
	Region    string    `json:"region"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	Optimizer string    `json:"optimizer"`
	Revenue   float64   `json:"revenue"`
	Cycles    float64   `json:"cycles"`
}

// Summary projects the list view of a record.
func (r *RunRecord) Summary() RunSummary {
	s := RunSummary{
		ID:        r.ID,
		Region:    r.Region,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
	}
	if r.Result != nil {
		s.Optimizer = r.Result.Optimizer
		s.Revenue = r.Result.Revenue
		s.Cycles = r.Result.Cycles
	}
	return s
}

// ErrRunNotFound is returned by DeleteRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

// RunRepository abstracts run persistence from the API layer.
// It hides the underlying storage mechanism (BadgerDB in production).
type RunRepository interface {
	// SaveRun persists a completed run under its ID.
	SaveRun(rec *RunRecord) error

	// GetRun loads one run. If the ID is unknown it returns (nil, nil).
	GetRun(id string) (*RunRecord, error)

	// ListRuns returns summaries of all stored runs, newest first.
	ListRuns() ([]RunSummary, error)

	// DeleteRun removes a run; ErrRunNotFound for unknown IDs.
	DeleteRun(id string) error

	// Close gracefully closes the underlying database.
	Close() error
}
