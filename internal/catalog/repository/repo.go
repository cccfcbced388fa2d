package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/basso-ws/workspace-backend/internal/catalog/domain"
)

// Repo provides persistence for the reference data: clients, workers, tasks.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateClient(ctx context.Context, name string) (*domain.Client, error) {
	const q = `
insert into clients (name)
values ($1)
returning id::text, name;
`
	var c domain.Client
	err := r.db.QueryRow(ctx, q, name).Scan(&c.ID, &c.Name)
	if isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &c, nil
}

func (r *Repo) ListClients(ctx context.Context) ([]domain.Client, error) {
	const q = `
select id::text, name
from clients
order by name;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Client, 0, 16)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CreateWorker(ctx context.Context, displayName string) (*domain.Worker, error) {
	const q = `
insert into workers (display_name, is_active)
values ($1, true)
returning id::text, display_name, is_active;
`
	var w domain.Worker
	err := r.db.QueryRow(ctx, q, displayName).Scan(&w.ID, &w.DisplayName, &w.IsActive)
	if isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}
	return &w, nil
}

func (r *Repo) ListWorkers(ctx context.Context, activeOnly bool) ([]domain.Worker, error) {
	q := `
select id::text, display_name, is_active
from workers
order by display_name;
`
	if activeOnly {
		q = `
select id::text, display_name, is_active
from workers
where is_active = true
order by display_name;
`
	}

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Worker, 0, 16)
	for rows.Next() {
		var w domain.Worker
		if err := rows.Scan(&w.ID, &w.DisplayName, &w.IsActive); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateWorker soft-deactivates; workers are never hard-deleted.
func (r *Repo) DeactivateWorker(ctx context.Context, id string) error {
	const q = `
update workers
set is_active = false
where id = $1;
`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deactivate worker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) CreateTask(ctx context.Context, name, unit string) (*domain.Task, error) {
	const q = `
insert into tasks (name, unit)
values ($1, $2)
returning id::text, name, unit;
`
	var t domain.Task
	err := r.db.QueryRow(ctx, q, name, unit).Scan(&t.ID, &t.Name, &t.Unit)
	if isUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

func (r *Repo) ListTasks(ctx context.Context) ([]domain.Task, error) {
	const q = `
select id::text, name, unit
from tasks
order by name;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0, 16)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.Unit); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
