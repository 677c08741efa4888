package api

import (
	"context"
	"net/http"
	"time"

	"github.com/RMahshie/srfresample/internal/api/handlers"
	"github.com/RMahshie/srfresample/internal/processing"
	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/internal/storage"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/danielgtaylor/huma/v2"
)

// Version is reported by the health endpoint
const Version = "0.1.0"

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, s3Service storage.S3Service, runRepo repository.RunRepository, processingSvc processing.ProcessingService, workers int) {
	// Initialize handlers
	resampleHandler := handlers.NewResampleHandler(workers)
	runHandler := handlers.NewRunHandler(runRepo, s3Service, processingSvc)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = Version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resample",
		Method:      http.MethodPost,
		Path:        "/api/resample",
		Summary:     "Resample a response function",
		Description: "Resamples an in-line spectral response function to a uniform step",
		Tags:        []string{"Resample"},
	}, resampleHandler.Resample)

	// Register run routes
	huma.Register(api, huma.Operation{
		OperationID:   "createRun",
		Method:        http.MethodPost,
		Path:          "/api/runs",
		Summary:       "Create a new run",
		Description:   "Creates a resampling run over an input object",
		Tags:          []string{"Run"},
		DefaultStatus: http.StatusCreated,
	}, runHandler.CreateRun)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/runs/{id}/process",
		Summary:     "Start processing run",
		Description: "Starts resampling the input object in the background",
		Tags:        []string{"Run"},
	}, runHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "getRunStatus",
		Method:      http.MethodGet,
		Path:        "/api/runs/{id}/status",
		Summary:     "Get run status",
		Description: "Returns the current status and progress of a run",
		Tags:        []string{"Run"},
	}, runHandler.GetRunStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getRunResults",
		Method:      http.MethodGet,
		Path:        "/api/runs/{id}/results",
		Summary:     "Get run results",
		Description: "Returns the resampled series of a completed run",
		Tags:        []string{"Run"},
	}, runHandler.GetRunResults)

	huma.Register(api, huma.Operation{
		OperationID: "getRunDownload",
		Method:      http.MethodGet,
		Path:        "/api/runs/{id}/download",
		Summary:     "Get output download URL",
		Description: "Returns a pre-signed URL of the resampled file",
		Tags:        []string{"Run"},
	}, runHandler.GetDownloadURL)
}
