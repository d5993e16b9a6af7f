package sim

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// WriteOperationsCSV writes the per-interval trace to path.
func WriteOperationsCSV(path string, ops []model.Operation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"time",
		"price",
		"action",
		"grid_power_mw",
		"energy_from_grid_mwh",
		"energy_stored_mwh",
		"energy_drawn_mwh",
		"energy_to_grid_mwh",
		"soc_start_mwh",
		"soc_end_mwh",
		"revenue",
		"cumulative_revenue",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, op := range ops {
		row := []string{
			strconv.Itoa(op.Index),
			op.Time,
			fmtFloat(op.Price),
			string(op.Action),
			fmtFloat(op.GridPowerMW),
			fmtFloat(op.EnergyFromGridMWh),
			fmtFloat(op.EnergyStoredMWh),
			fmtFloat(op.EnergyDrawnMWh),
			fmtFloat(op.EnergyToGridMWh),
			fmtFloat(op.SoCStartMWh),
			fmtFloat(op.SoCEndMWh),
			fmtFloat(op.Revenue),
			fmtFloat(op.CumulativeRevenue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
