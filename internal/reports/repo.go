package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one reportable roster line, flattened across plan, client, task and
// worker. It mirrors the report_rows view; WorkerTask is the per-line task
// override already resolved to its catalog name by the view.
type Row struct {
	PlanDate    string   `json:"plan_date"`
	Client      string   `json:"client"`
	Task        string   `json:"task"`
	PricingMode string   `json:"pricing_mode"`
	DayStatus   string   `json:"day_status"`
	Worker      string   `json:"worker"`
	HoursWorked *float64 `json:"hours_worked"`
	PieceCount  *int     `json:"piece_count"`
	WorkerTask  string   `json:"worker_task"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Between returns report rows for plan dates in [from, to], inclusive.
func (r *Repo) Between(ctx context.Context, from, to string) ([]Row, error) {
	const q = `
select to_char(plan_date, 'YYYY-MM-DD'),
       client,
       task,
       pricing_mode,
       day_status,
       worker,
       hours_worked,
       piece_count,
       coalesce(worker_task_name, '')
from report_rows
where plan_date >= $1 and plan_date <= $2
order by plan_date, client, worker;
`
	rows, err := r.db.Query(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("query report rows: %w", err)
	}
	defer rows.Close()

	out := make([]Row, 0, 64)
	for rows.Next() {
		var row Row
		err := rows.Scan(&row.PlanDate, &row.Client, &row.Task, &row.PricingMode,
			&row.DayStatus, &row.Worker, &row.HoursWorked, &row.PieceCount, &row.WorkerTask)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
