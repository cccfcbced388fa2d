package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/basso-ws/workspace-backend/internal/plans/domain"
	"github.com/basso-ws/workspace-backend/internal/profiles"
)

// Repository is the persistence surface the plan service needs.
type Repository interface {
	CreateWithRoster(ctx context.Context, req *domain.CreatePlanRequest) (string, error)
	List(ctx context.Context, leaderUserID string) ([]domain.PlanSummary, error)
	GetHead(ctx context.Context, planID string) (*domain.PlanHead, error)
	GetLines(ctx context.Context, planID string) ([]domain.WorkerLine, error)
	UpdateLine(ctx context.Context, planID string, patch *domain.LinePatch) error
	Close(ctx context.Context, planID string) error
	Reopen(ctx context.Context, planID string) error
}

// Actor is the authenticated caller an operation runs as.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) isAdmin() bool {
	return a.Role == profiles.RoleAdmin
}

// SaveOutcome reports how far a sequential roster save got. Committed holds
// the line ids written before the first failure; FailedLine is empty when
// every patch landed.
type SaveOutcome struct {
	Committed  []string `json:"committed"`
	FailedLine string   `json:"failed_line,omitempty"`
}

// Service executes plan operations with role checks applied before any write.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new day. Admin only; validation runs before anything is
// written so a bad request leaves no partial plan behind.
func (s *Service) Create(ctx context.Context, actor Actor, req *domain.CreatePlanRequest) (string, error) {
	if !actor.isAdmin() {
		return "", domain.ErrForbidden
	}
	if err := validateCreate(req); err != nil {
		return "", err
	}
	return s.repo.CreateWithRoster(ctx, req)
}

func validateCreate(req *domain.CreatePlanRequest) error {
	if _, err := time.Parse("2006-01-02", req.PlanDate); err != nil {
		return fmt.Errorf("%w: plan_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if strings.TrimSpace(req.ClientID) == "" {
		return fmt.Errorf("%w: client_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.TaskID) == "" {
		return fmt.Errorf("%w: task_id is required", domain.ErrValidation)
	}
	if !domain.ValidPricingMode(req.PricingMode) {
		return fmt.Errorf("%w: pricing_mode must be %q or %q", domain.ErrValidation, domain.PricingHour, domain.PricingPiece)
	}
	if strings.TrimSpace(req.LeaderUserID) == "" {
		return fmt.Errorf("%w: leader_user_id is required", domain.ErrValidation)
	}
	if len(req.WorkerIDs) == 0 {
		return fmt.Errorf("%w: at least one worker is required", domain.ErrValidation)
	}
	seen := make(map[string]struct{}, len(req.WorkerIDs))
	for _, id := range req.WorkerIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate worker %s", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ListFor returns recent plans scoped by role: admins see everything, leads
// only their own days.
func (s *Service) ListFor(ctx context.Context, actor Actor) ([]domain.PlanSummary, error) {
	if actor.isAdmin() {
		return s.repo.List(ctx, "")
	}
	return s.repo.List(ctx, actor.UserID)
}

// Get returns a plan with its roster. Leads can only open their own plans.
func (s *Service) Get(ctx context.Context, actor Actor, planID string) (*domain.PlanDetail, error) {
	head, err := s.repo.GetHead(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !actor.isAdmin() && head.LeaderUserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	lines, err := s.repo.GetLines(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &domain.PlanDetail{PlanHead: *head, Lines: lines}, nil
}

// SaveLines writes roster patches one at a time, halting on the first
// failure. The outcome always names the lines that were committed, so the
// caller can tell a partial save from a full one.
func (s *Service) SaveLines(ctx context.Context, actor Actor, planID string, patches []domain.LinePatch) (*SaveOutcome, error) {
	head, err := s.repo.GetHead(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !actor.isAdmin() && head.LeaderUserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if head.DayStatus == domain.DayStatusClosed {
		return nil, domain.ErrPlanClosed
	}

	outcome := &SaveOutcome{Committed: make([]string, 0, len(patches))}
	for i := range patches {
		patch := &patches[i]
		if err := s.repo.UpdateLine(ctx, planID, patch); err != nil {
			outcome.FailedLine = patch.LineID
			return outcome, fmt.Errorf("line %s: %w", patch.LineID, err)
		}
		outcome.Committed = append(outcome.Committed, patch.LineID)
	}
	return outcome, nil
}

// Close saves any pending patches first, then marks the day closed. A close
// with unsaved edits must never silently drop them.
func (s *Service) Close(ctx context.Context, actor Actor, planID string, pending []domain.LinePatch) (*SaveOutcome, error) {
	outcome := &SaveOutcome{}
	if len(pending) > 0 {
		var err error
		outcome, err = s.SaveLines(ctx, actor, planID, pending)
		if err != nil {
			return outcome, err
		}
	} else {
		head, err := s.repo.GetHead(ctx, planID)
		if err != nil {
			return nil, err
		}
		if !actor.isAdmin() && head.LeaderUserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		if head.DayStatus == domain.DayStatusClosed {
			return nil, domain.ErrPlanClosed
		}
	}

	if err := s.repo.Close(ctx, planID); err != nil {
		return outcome, err
	}
	return outcome, nil
}

// Reopen flips a closed day back to open. Admin only.
func (s *Service) Reopen(ctx context.Context, actor Actor, planID string) error {
	if !actor.isAdmin() {
		return domain.ErrForbidden
	}
	head, err := s.repo.GetHead(ctx, planID)
	if err != nil {
		return err
	}
	if head.DayStatus == domain.DayStatusOpen {
		return fmt.Errorf("%w: plan is already open", domain.ErrValidation)
	}
	return s.repo.Reopen(ctx, planID)
}
