// Package memory provides a process-local RunRepository used when no
// database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/google/uuid"
)

type runRepository struct {
	mu      sync.RWMutex
	runs    map[string]models.Run
	results map[string]models.RunResults
}

// NewRunRepository creates an empty in-memory run repository
func NewRunRepository() repository.RunRepository {
	return &runRepository{
		runs:    make(map[string]models.Run),
		results: make(map[string]models.RunResults),
	}
}

func (r *runRepository) Create(_ context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = models.StatusPending
	}
	now := time.Now().UTC()
	run.CreatedAt, run.UpdatedAt = now, now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

func (r *runRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &run, nil
}

func (r *runRepository) UpdateStatus(_ context.Context, id uuid.UUID, status string, progress int) error {
	return r.update(id, func(run *models.Run) {
		run.Status = status
		run.Progress = progress
		if status == models.StatusCompleted {
			t := run.UpdatedAt
			run.CompletedAt = &t
		}
	})
}

func (r *runRepository) UpdateError(_ context.Context, id uuid.UUID, errorMsg string) error {
	return r.update(id, func(run *models.Run) {
		run.Status = models.StatusFailed
		run.ErrorMsg = &errorMsg
	})
}

func (r *runRepository) StoreResults(_ context.Context, results *models.RunResults) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[results.RunID]; !ok {
		return repository.ErrNotFound
	}
	r.results[results.RunID] = *results
	return nil
}

func (r *runRepository) GetResults(_ context.Context, runID uuid.UUID) (*models.RunResults, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.results[runID.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &res, nil
}

func (r *runRepository) update(id uuid.UUID, fn func(*models.Run)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id.String()]
	if !ok {
		return repository.ErrNotFound
	}
	run.UpdatedAt = time.Now().UTC()
	fn(&run)
	r.runs[id.String()] = run
	return nil
}
