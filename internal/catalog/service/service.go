package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/basso-ws/workspace-backend/internal/catalog/domain"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	CreateClient(ctx context.Context, name string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateWorker(ctx context.Context, displayName string) (*domain.Worker, error)
	ListWorkers(ctx context.Context, activeOnly bool) ([]domain.Worker, error)
	DeactivateWorker(ctx context.Context, id string) error
	CreateTask(ctx context.Context, name, unit string) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

// Service validates and executes reference-data operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateClient(ctx context.Context, name string) (*domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", domain.ErrValidation)
	}
	return s.repo.CreateClient(ctx, name)
}

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) CreateWorker(ctx context.Context, displayName string) (*domain.Worker, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: worker name is required", domain.ErrValidation)
	}
	return s.repo.CreateWorker(ctx, displayName)
}

func (s *Service) ListWorkers(ctx context.Context, activeOnly bool) ([]domain.Worker, error) {
	return s.repo.ListWorkers(ctx, activeOnly)
}

func (s *Service) DeactivateWorker(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: worker id is required", domain.ErrValidation)
	}
	return s.repo.DeactivateWorker(ctx, id)
}

func (s *Service) CreateTask(ctx context.Context, name, unit string) (*domain.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: task name is required", domain.ErrValidation)
	}
	if !domain.ValidUnit(unit) {
		return nil, fmt.Errorf("%w: unit must be %q or %q", domain.ErrValidation, domain.UnitHour, domain.UnitPiece)
	}
	return s.repo.CreateTask(ctx, name, unit)
}

func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx)
}
