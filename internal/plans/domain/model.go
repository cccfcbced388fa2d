package domain

import "time"

// Pricing modes for a plan
const (
	PricingHour  = "hour"
	PricingPiece = "piece"
)

// Day status of a plan
const (
	DayStatusOpen   = "open"
	DayStatusClosed = "closed"
)

// PlanSummary is the list-view shape: head fields plus resolved names.
type PlanSummary struct {
	ID           string `json:"id"`
	PlanDate     string `json:"plan_date"`
	ClientName   string `json:"client_name"`
	TaskName     string `json:"task_name"`
	PricingMode  string `json:"pricing_mode"`
	DayStatus    string `json:"day_status"`
	LeaderEmail  string `json:"leader_email"`
	WorkerCount  int    `json:"worker_count"`
	LeaderUserID string `json:"leader_user_id"`
}

// PlanHead is the plan record without its roster.
type PlanHead struct {
	ID           string     `json:"id"`
	PlanDate     string     `json:"plan_date"`
	ClientID     string     `json:"client_id"`
	ClientName   string     `json:"client_name"`
	TaskID       string     `json:"task_id"`
	TaskName     string     `json:"task_name"`
	PricingMode  string     `json:"pricing_mode"`
	DayStatus    string     `json:"day_status"`
	LeaderUserID string     `json:"leader_user_id"`
	Note         string     `json:"note"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	ReopenedAt   *time.Time `json:"reopened_at,omitempty"`
}

// WorkerLine is one roster entry on a plan. WorkerTaskID overrides the plan's
// task for this worker only; WorkerTaskName is its resolved catalog name.
type WorkerLine struct {
	ID             string   `json:"id"`
	WorkerID       string   `json:"worker_id"`
	WorkerName     string   `json:"worker_name"`
	HoursWorked    *float64 `json:"hours_worked"`
	PieceCount     *int     `json:"piece_count"`
	WorkerTaskID   *string  `json:"worker_task_id"`
	WorkerTaskName string   `json:"worker_task_name"`
	WorkNote       string   `json:"work_note"`
}

// PlanDetail is a head with its full roster.
type PlanDetail struct {
	PlanHead
	Lines []WorkerLine `json:"lines"`
}

// CreatePlanRequest carries everything needed to open a day: the head fields
// and the initial roster.
type CreatePlanRequest struct {
	PlanDate     string   `json:"plan_date"`
	ClientID     string   `json:"client_id"`
	TaskID       string   `json:"task_id"`
	PricingMode  string   `json:"pricing_mode"`
	LeaderUserID string   `json:"leader_user_id"`
	Note         string   `json:"note"`
	WorkerIDs    []string `json:"worker_ids"`
}

// LinePatch is one roster line edit submitted by a lead.
type LinePatch struct {
	LineID       string   `json:"line_id"`
	HoursWorked  *float64 `json:"hours_worked"`
	PieceCount   *int     `json:"piece_count"`
	WorkerTaskID *string  `json:"worker_task_id"`
	WorkNote     string   `json:"work_note"`
}

func ValidPricingMode(mode string) bool {
	return mode == PricingHour || mode == PricingPiece
}
