package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basso-ws/workspace-backend/internal/catalog/domain"
)

type fakeRepo struct {
	clients []domain.Client
	workers []domain.Worker
	tasks   []domain.Task

	createClientCalls int
	createTaskCalls   int
}

func (f *fakeRepo) CreateClient(ctx context.Context, name string) (*domain.Client, error) {
	f.createClientCalls++
	for _, c := range f.clients {
		if c.Name == name {
			return nil, domain.ErrAlreadyExists
		}
	}
	c := domain.Client{ID: "c-1", Name: name}
	f.clients = append(f.clients, c)
	return &c, nil
}

func (f *fakeRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	return f.clients, nil
}

func (f *fakeRepo) CreateWorker(ctx context.Context, displayName string) (*domain.Worker, error) {
	w := domain.Worker{ID: "w-1", DisplayName: displayName, IsActive: true}
	f.workers = append(f.workers, w)
	return &w, nil
}

func (f *fakeRepo) ListWorkers(ctx context.Context, activeOnly bool) ([]domain.Worker, error) {
	if !activeOnly {
		return f.workers, nil
	}
	out := make([]domain.Worker, 0, len(f.workers))
	for _, w := range f.workers {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeactivateWorker(ctx context.Context, id string) error {
	for i, w := range f.workers {
		if w.ID == id {
			f.workers[i].IsActive = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) CreateTask(ctx context.Context, name, unit string) (*domain.Task, error) {
	f.createTaskCalls++
	t := domain.Task{ID: "t-1", Name: name, Unit: unit}
	f.tasks = append(f.tasks, t)
	return &t, nil
}

func (f *fakeRepo) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return f.tasks, nil
}

func TestService_CreateClient_TrimsAndValidates(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.createClientCalls, "blank name must not reach the store")

	c, err := svc.CreateClient(ctx, "  Acme  ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
}

func TestService_CreateClient_Duplicate(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, "Acme")
	require.NoError(t, err)

	_, err = svc.CreateClient(ctx, "Acme")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_CreateTask_UnitEnum(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, "Painting", "minute")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, repo.createTaskCalls)

	task, err := svc.CreateTask(ctx, "Painting", domain.UnitHour)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitHour, task.Unit)

	task, err = svc.CreateTask(ctx, "Packing", domain.UnitPiece)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitPiece, task.Unit)
}

func TestService_DeactivateWorker(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	w, err := svc.CreateWorker(ctx, "Jane")
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateWorker(ctx, w.ID))

	active, err := svc.ListWorkers(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	// the record survives, only the flag flips
	all, err := svc.ListWorkers(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	assert.ErrorIs(t, svc.DeactivateWorker(ctx, "missing"), domain.ErrNotFound)
}
