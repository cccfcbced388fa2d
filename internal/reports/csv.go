package reports

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"plan_date", "client", "task", "pricing_mode", "day_status",
	"worker", "hours_worked", "piece_count", "worker_task",
}

// WriteCSV renders rows as RFC 4180 CSV. Nil numeric fields become empty
// cells, not zeros, so unfilled lines stay distinguishable in exports.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.PlanDate,
			r.Client,
			r.Task,
			r.PricingMode,
			r.DayStatus,
			r.Worker,
			formatFloat(r.HoursWorked),
			formatInt(r.PieceCount),
			r.WorkerTask,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
