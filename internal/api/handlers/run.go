package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/RMahshie/srfresample/internal/processing"
	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/internal/storage"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunHandler handles stored resampling runs
type RunHandler struct {
	repo          repository.RunRepository
	s3Service     storage.S3Service
	processingSvc processing.ProcessingService
}

// NewRunHandler creates a new run handler. s3Service may be nil, in which
// case run endpoints report 503.
func NewRunHandler(repo repository.RunRepository, s3Service storage.S3Service, processingSvc processing.ProcessingService) *RunHandler {
	return &RunHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
	}
}

// CreateRun records a new run over an input object
func (h *RunHandler) CreateRun(ctx context.Context, req *models.CreateRunRequest) (*models.CreateRunResponse, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Object storage is not configured")
	}

	method := req.Body.Method
	if method == "" {
		method = models.NearNeighbour
	}
	if _, err := models.ParseResampleMethod(string(method)); err != nil {
		return nil, huma.Error400BadRequest(err.Error(), err)
	}
	step := models.StepOrDefault(req.Body.Step)
	if !(step > 0) || math.IsInf(step, 1) {
		return nil, huma.Error400BadRequest("Step must be positive and finite", fmt.Errorf("step %v", step))
	}

	runID := uuid.New()
	outputKey := req.Body.OutputKey
	if outputKey == "" {
		outputKey = fmt.Sprintf("resampled/%s.csv", runID)
	}

	run := &models.Run{
		ID:        runID.String(),
		Status:    models.StatusPending,
		InputKey:  req.Body.InputKey,
		OutputKey: outputKey,
		Parse:     req.Body.ParseSettings,
		Step:      step,
		Method:    method,
	}

	log.Info().Str("runID", run.ID).Str("inputKey", run.InputKey).Str("outputKey", outputKey).Msg("Creating run")
	if err := h.repo.Create(ctx, run); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create run", err)
	}

	return &models.CreateRunResponse{
		Body: models.CreateRunResponseBody{ID: run.ID, OutputKey: outputKey},
	}, nil
}

// StartProcessing starts processing a run in the background
func (h *RunHandler) StartProcessing(ctx context.Context, req *models.RunIDRequest) (*models.StartProcessingResponse, error) {
	runID, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("runID", runID.String()).Msg("Starting background processing goroutine")
	go func() {
		err := h.processingSvc.ProcessRun(context.Background(), runID)
		if err != nil {
			h.repo.UpdateError(context.Background(), runID, fmt.Sprintf("Processing failed: %v", err))
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// GetRunStatus returns the current status of a run
func (h *RunHandler) GetRunStatus(ctx context.Context, req *models.RunIDRequest) (*models.GetRunStatusResponse, error) {
	runID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid run ID", err)
	}

	run, err := h.repo.GetByID(ctx, runID)
	if err != nil {
		return nil, notFoundOr500("Run", err)
	}

	var resultsID *string
	if run.Status == models.StatusCompleted {
		if results, err := h.repo.GetResults(ctx, runID); err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	return &models.GetRunStatusResponse{
		Body: models.GetRunStatusResponseBody{
			ID:        run.ID,
			Status:    run.Status,
			Progress:  run.Progress,
			Message:   statusMessage(run.Status, run.Progress),
			Error:     run.ErrorMsg,
			ResultsID: resultsID,
		},
	}, nil
}

// GetRunResults returns the resampled series of a completed run
func (h *RunHandler) GetRunResults(ctx context.Context, req *models.RunIDRequest) (*models.GetRunResultsResponse, error) {
	runID, err := h.completed(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	results, err := h.repo.GetResults(ctx, runID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	return &models.GetRunResultsResponse{Body: *results}, nil
}

// GetDownloadURL returns a pre-signed URL of the output object of a completed run
func (h *RunHandler) GetDownloadURL(ctx context.Context, req *models.RunIDRequest) (*models.DownloadURLResponse, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Object storage is not configured")
	}
	runID, err := h.completed(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	run, err := h.repo.GetByID(ctx, runID)
	if err != nil {
		return nil, notFoundOr500("Run", err)
	}

	url, err := h.s3Service.GenerateDownloadURL(ctx, run.OutputKey)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate download URL", err)
	}

	resp := &models.DownloadURLResponse{}
	resp.Body.URL = url
	return resp, nil
}

func (h *RunHandler) lookup(ctx context.Context, id string) (uuid.UUID, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("Invalid run ID", err)
	}
	if _, err := h.repo.GetByID(ctx, runID); err != nil {
		return uuid.Nil, notFoundOr500("Run", err)
	}
	return runID, nil
}

func (h *RunHandler) completed(ctx context.Context, id string) (uuid.UUID, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("Invalid run ID", err)
	}

	run, err := h.repo.GetByID(ctx, runID)
	if err != nil {
		return uuid.Nil, notFoundOr500("Run", err)
	}
	if run.Status != models.StatusCompleted {
		return uuid.Nil, huma.Error409Conflict("Run not yet completed",
			fmt.Errorf("run status is %s", run.Status))
	}
	return runID, nil
}

func notFoundOr500(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound(what+" not found", err)
	}
	return huma.Error500InternalServerError("Failed to load "+what, err)
}

// statusMessage creates a human-readable status message
func statusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Run queued for processing..."
	case models.StatusProcessing:
		if progress < 30 {
			return "Starting run..."
		} else if progress < 90 {
			return "Resampling response function..."
		}
		return "Storing results..."
	case models.StatusCompleted:
		return "Resampling complete!"
	case models.StatusFailed:
		return "Resampling failed."
	default:
		return "Unknown status"
	}
}
