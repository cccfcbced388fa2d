package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	RoleAdmin    = "admin"
	RoleTeamLead = "team_lead"
	RoleUser     = "user"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile mirrors a row of the profiles table. Role is never mutated through
// this service; promotions happen out-of-band.
type Profile struct {
	ID    string  `json:"id"`
	Email *string `json:"email"`
	Role  string  `json:"role"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Ensure inserts a profile for the identity if none exists yet. The default
// role is "user"; an existing row is left untouched.
func (r *Repo) Ensure(ctx context.Context, id, email string) error {
	if id == "" {
		return fmt.Errorf("profile id required")
	}

	const q = `
insert into profiles (id, email, role)
values ($1, nullif($2,''), 'user')
on conflict (id) do nothing;
`
	if _, err := r.db.Exec(ctx, q, id, email); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Profile, error) {
	const q = `
select id, email, role
from profiles
where id = $1;
`
	var p Profile
	err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Email, &p.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// ListLeaders returns profiles eligible to lead a plan.
func (r *Repo) ListLeaders(ctx context.Context) ([]Profile, error) {
	const q = `
select id, email, role
from profiles
where role = any($1)
order by email;
`
	rows, err := r.db.Query(ctx, q, []string{RoleTeamLead, RoleAdmin})
	if err != nil {
		return nil, fmt.Errorf("list leaders: %w", err)
	}
	defer rows.Close()

	out := make([]Profile, 0, 16)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Role); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
