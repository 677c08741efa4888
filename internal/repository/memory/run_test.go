package memory

import (
	"context"
	"testing"

	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository()

	run := &models.Run{InputKey: "in/b1.txt", OutputKey: "out/b1.csv", Step: 2.5, Method: models.NearNeighbour}
	require.NoError(t, repo.Create(ctx, run))
	require.NotEmpty(t, run.ID)

	id := uuid.MustParse(run.ID)
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, 2.5, got.Step)

	require.NoError(t, repo.UpdateStatus(ctx, id, models.StatusProcessing, 30))
	got, _ = repo.GetByID(ctx, id)
	assert.Equal(t, 30, got.Progress)
	assert.Nil(t, got.CompletedAt)

	results := &models.RunResults{ID: uuid.New().String(), RunID: run.ID, SampleCount: 1,
		Samples: models.ResampledSeries{{Wavelength: 400, Response: 0.1}}}
	require.NoError(t, repo.StoreResults(ctx, results))

	require.NoError(t, repo.UpdateStatus(ctx, id, models.StatusCompleted, 100))
	got, _ = repo.GetByID(ctx, id)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	stored, err := repo.GetResults(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, results.Samples, stored.Samples)
}

func TestRunRepository_UpdateError(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository()

	run := &models.Run{InputKey: "in.txt", OutputKey: "out.csv", Step: 1, Method: models.Linear}
	require.NoError(t, repo.Create(ctx, run))

	id := uuid.MustParse(run.ID)
	require.NoError(t, repo.UpdateError(ctx, id, "unsupported"))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMsg)
	assert.Equal(t, "unsupported", *got.ErrorMsg)
}

func TestRunRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepository()
	id := uuid.New()

	_, err := repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetResults(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, id, models.StatusProcessing, 10), repository.ErrNotFound)
	assert.ErrorIs(t, repo.StoreResults(ctx, &models.RunResults{RunID: id.String()}), repository.ErrNotFound)
}
