package processing

import (
	"context"
	"fmt"
	"time"

	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/internal/spectral"
	"github.com/RMahshie/srfresample/internal/storage"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProcessingService interface {
	ProcessRun(ctx context.Context, runID uuid.UUID) error
}

type processingService struct {
	s3         storage.S3Service
	repository repository.RunRepository
	resampler  *Resampler
	workers    int
}

func NewProcessingService(s3Service storage.S3Service, repo repository.RunRepository, workers int) ProcessingService {
	return &processingService{
		s3:         s3Service,
		repository: repo,
		resampler:  NewResampler(s3Service),
		workers:    workers,
	}
}

// ProcessRun resamples the input object of a stored run into its output
// object. Failures of the resampling itself are recorded on the run and do
// not surface as an error.
func (s *processingService) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, runID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get run details
	run, err := s.repository.GetByID(ctx, runID)
	if err != nil {
		return err
	}
	if s.s3 == nil {
		s.repository.UpdateError(ctx, runID, ErrNoObjectStore.Error())
		return nil
	}

	// Step 3: Parse, resample and upload
	if err := s.repository.UpdateStatus(ctx, runID, models.StatusProcessing, 30); err != nil {
		return err
	}

	job := Job{
		Input:  storage.Location{Bucket: s.s3.Bucket(), Key: run.InputKey},
		Output: storage.Location{Bucket: s.s3.Bucket(), Key: run.OutputKey},
		Parse: spectral.ParseOptions{
			Separator:        run.Parse.Separator,
			SkipLines:        run.Parse.SkipLines,
			WavelengthColumn: run.Parse.WavelengthColumn,
			ResponseColumn:   run.Parse.ResponseColumn,
		},
		Step:    run.Step,
		Method:  run.Method,
		Workers: s.workers,
	}

	result, err := s.resampler.Execute(ctx, job)
	if err != nil {
		log.Error().Err(err).Str("runID", run.ID).Msg("Resampling failed")
		s.repository.UpdateError(ctx, runID, fmt.Sprintf("Resampling failed: %v", err))
		return nil // Don't return error, status is updated to failed
	}

	// Step 4: Store results
	if err := s.repository.UpdateStatus(ctx, runID, models.StatusProcessing, 90); err != nil {
		return err
	}

	results := &models.RunResults{
		ID:          uuid.New().String(),
		RunID:       run.ID,
		InputCount:  len(result.Input),
		SampleCount: len(result.Output),
		Samples:     result.Output,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		return err
	}

	// Step 5: Mark complete
	return s.repository.UpdateStatus(ctx, runID, models.StatusCompleted, 100)
}
