package reports

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_HeaderAndQuoting(t *testing.T) {
	h := 7.5
	p := 120
	rows := []Row{
		{
			PlanDate:    "2024-06-01",
			Client:      "Acme, Inc.",
			Task:        "Painting",
			PricingMode: "hour",
			DayStatus:   "closed",
			Worker:      "O'Brien, Jr",
			HoursWorked: &h,
			WorkerTask:  "trim \"detail\" work",
		},
		{
			PlanDate:    "2024-06-01",
			Client:      "Acme, Inc.",
			Task:        "Packing",
			PricingMode: "piece",
			DayStatus:   "open",
			Worker:      "Jane",
			PieceCount:  &p,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"plan_date", "client", "task", "pricing_mode", "day_status",
		"worker", "hours_worked", "piece_count", "worker_task",
	}, records[0])

	// names with commas and quotes survive a round trip intact
	assert.Equal(t, "O'Brien, Jr", records[1][5])
	assert.Equal(t, "Acme, Inc.", records[1][1])
	assert.Equal(t, `trim "detail" work`, records[1][8])
	assert.Equal(t, "7.5", records[1][6])

	// unfilled numerics are empty cells, not zeros
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "120", records[2][7])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
