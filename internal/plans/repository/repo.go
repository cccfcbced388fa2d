package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/basso-ws/workspace-backend/internal/plans/domain"
)

const listLimit = 30

// Repo provides persistence for plans and their worker lines.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// CreateWithRoster inserts the plan head and its initial roster in one
// transaction so a partially-created day can never be observed.
func (r *Repo) CreateWithRoster(ctx context.Context, req *domain.CreatePlanRequest) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin create plan: %w", err)
	}
	defer tx.Rollback(ctx)

	const headQ = `
insert into plans (plan_date, client_id, task_id, pricing_mode, day_status, leader_user_id, note)
values ($1, $2, $3, $4, 'open', $5, $6)
returning id::text;
`
	var planID string
	err = tx.QueryRow(ctx, headQ,
		req.PlanDate, req.ClientID, req.TaskID, req.PricingMode, req.LeaderUserID, req.Note,
	).Scan(&planID)
	if err != nil {
		return "", fmt.Errorf("insert plan head: %w", err)
	}

	const lineQ = `
insert into plan_workers (plan_id, worker_id)
values ($1, $2);
`
	for _, workerID := range req.WorkerIDs {
		if _, err := tx.Exec(ctx, lineQ, planID, workerID); err != nil {
			return "", fmt.Errorf("insert roster line for worker %s: %w", workerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit create plan: %w", err)
	}
	return planID, nil
}

// List returns recent plans, newest day first. When leaderUserID is non-empty
// only that lead's plans are returned.
func (r *Repo) List(ctx context.Context, leaderUserID string) ([]domain.PlanSummary, error) {
	q := `
select p.id::text,
       to_char(p.plan_date, 'YYYY-MM-DD'),
       c.name,
       t.name,
       p.pricing_mode,
       p.day_status,
       coalesce(pr.email, ''),
       p.leader_user_id::text,
       (select count(*) from plan_workers pw where pw.plan_id = p.id)
from plans p
join clients c on c.id = p.client_id
join tasks t on t.id = p.task_id
left join profiles pr on pr.id = p.leader_user_id
`
	args := []any{}
	if leaderUserID != "" {
		q += "where p.leader_user_id = $1\n"
		args = append(args, leaderUserID)
	}
	q += fmt.Sprintf("order by p.plan_date desc, p.id desc\nlimit %d;", listLimit)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PlanSummary, 0, listLimit)
	for rows.Next() {
		var s domain.PlanSummary
		err := rows.Scan(&s.ID, &s.PlanDate, &s.ClientName, &s.TaskName,
			&s.PricingMode, &s.DayStatus, &s.LeaderEmail, &s.LeaderUserID, &s.WorkerCount)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetHead(ctx context.Context, planID string) (*domain.PlanHead, error) {
	const q = `
select p.id::text,
       to_char(p.plan_date, 'YYYY-MM-DD'),
       p.client_id::text,
       c.name,
       p.task_id::text,
       t.name,
       p.pricing_mode,
       p.day_status,
       p.leader_user_id::text,
       coalesce(p.note, ''),
       p.closed_at,
       p.reopened_at
from plans p
join clients c on c.id = p.client_id
join tasks t on t.id = p.task_id
where p.id = $1;
`
	var h domain.PlanHead
	err := r.db.QueryRow(ctx, q, planID).Scan(
		&h.ID, &h.PlanDate, &h.ClientID, &h.ClientName, &h.TaskID, &h.TaskName,
		&h.PricingMode, &h.DayStatus, &h.LeaderUserID, &h.Note, &h.ClosedAt, &h.ReopenedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan head: %w", err)
	}
	return &h, nil
}

func (r *Repo) GetLines(ctx context.Context, planID string) ([]domain.WorkerLine, error) {
	const q = `
select pw.id::text,
       pw.worker_id::text,
       w.display_name,
       pw.hours_worked,
       pw.piece_count,
       pw.worker_task_id::text,
       coalesce(wt.name, ''),
       coalesce(pw.work_note, '')
from plan_workers pw
join workers w on w.id = pw.worker_id
left join tasks wt on wt.id = pw.worker_task_id
where pw.plan_id = $1
order by pw.created_at, pw.id;
`
	rows, err := r.db.Query(ctx, q, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan lines: %w", err)
	}
	defer rows.Close()

	out := make([]domain.WorkerLine, 0, 8)
	for rows.Next() {
		var l domain.WorkerLine
		err := rows.Scan(&l.ID, &l.WorkerID, &l.WorkerName, &l.HoursWorked, &l.PieceCount,
			&l.WorkerTaskID, &l.WorkerTaskName, &l.WorkNote)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLine writes one roster line. The plan_id guard keeps a line id from
// another plan from being patched through this one.
func (r *Repo) UpdateLine(ctx context.Context, planID string, patch *domain.LinePatch) error {
	const q = `
update plan_workers
set hours_worked = $1,
    piece_count = $2,
    worker_task_id = $3,
    work_note = nullif($4, '')
where id = $5 and plan_id = $6;
`
	tag, err := r.db.Exec(ctx, q, patch.HoursWorked, patch.PieceCount, patch.WorkerTaskID, patch.WorkNote, patch.LineID, planID)
	if err != nil {
		return fmt.Errorf("update plan line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *Repo) Close(ctx context.Context, planID string) error {
	const q = `
update plans
set day_status = 'closed', closed_at = now()
where id = $1;
`
	tag, err := r.db.Exec(ctx, q, planID)
	if err != nil {
		return fmt.Errorf("close plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *Repo) Reopen(ctx context.Context, planID string) error {
	const q = `
update plans
set day_status = 'open', reopened_at = now()
where id = $1;
`
	tag, err := r.db.Exec(ctx, q, planID)
	if err != nil {
		return fmt.Errorf("reopen plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}
