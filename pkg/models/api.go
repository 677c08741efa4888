package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ResampleRequestBody is the body of a synchronous resample request
type ResampleRequestBody struct {
	Samples []SpectralSample `json:"samples,omitempty" doc:"Input series; takes precedence over content"`
	Content string           `json:"content,omitempty" maxLength:"5242880" doc:"Raw delimited text of the response function"`
	ParseSettings
	Step   *float64       `json:"step,omitempty" doc:"Output sampling step; 1 when omitted"`
	Method ResampleMethod `json:"method,omitempty" enum:"NearNeighbour,Linear" default:"NearNeighbour" doc:"Resampling method"`
}

// DefaultStep is the sampling step used when a request omits one
const DefaultStep = 1.0

// StepOrDefault returns *step, or DefaultStep when step is nil
func StepOrDefault(step *float64) float64 {
	if step == nil {
		return DefaultStep
	}
	return *step
}

// ResampleRequest represents a request to resample a series in-line
type ResampleRequest struct {
	Body ResampleRequestBody
}

// ResampleResponseBody is the body of a synchronous resample response
type ResampleResponseBody struct {
	InputCount  int             `json:"input_count" doc:"Number of parsed input samples"`
	SampleCount int             `json:"sample_count" doc:"Number of resampled output samples"`
	Samples     ResampledSeries `json:"samples" doc:"Resampled series"`
	CSV         string          `json:"csv" doc:"Resampled series as wavelength,response lines"`
}

// ResampleResponse represents the resampled series
type ResampleResponse struct {
	Body ResampleResponseBody
}

// CreateRunRequestBody is the body of a create run request
type CreateRunRequestBody struct {
	InputKey  string `json:"input_key" minLength:"1" required:"true" doc:"Object key of the input file"`
	OutputKey string `json:"output_key,omitempty" doc:"Object key for the output file; generated when empty"`
	ParseSettings
	Step   *float64       `json:"step,omitempty" doc:"Output sampling step; 1 when omitted"`
	Method ResampleMethod `json:"method,omitempty" enum:"NearNeighbour,Linear" default:"NearNeighbour" doc:"Resampling method"`
}

// CreateRunRequest represents a request to create a new resampling run
type CreateRunRequest struct {
	Body CreateRunRequestBody
}

// CreateRunResponseBody is the body of the create run response
type CreateRunResponseBody struct {
	ID        string `json:"id" doc:"Run unique identifier"`
	OutputKey string `json:"output_key" doc:"Object key the output will be written to"`
}

// CreateRunResponse represents the response from creating a run
type CreateRunResponse struct {
	Body CreateRunResponseBody
}

// RunIDRequest addresses a single run
type RunIDRequest struct {
	ID string `path:"id" doc:"Run ID"`
}

// GetRunStatusResponseBody is the body of the status response
type GetRunStatusResponseBody struct {
	ID        string  `json:"id" doc:"Run ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Run status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Run progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	Error     *string `json:"error,omitempty" doc:"Failure reason when the run failed"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when the run completes"`
}

// GetRunStatusResponse represents the current status of a run
type GetRunStatusResponse struct {
	Body GetRunStatusResponseBody
}

// GetRunResultsResponse represents the complete results of a run
type GetRunResultsResponse struct {
	Body RunResults
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// DownloadURLResponse carries a pre-signed URL for the run output
type DownloadURLResponse struct {
	Body struct {
		URL string `json:"url" doc:"Pre-signed download URL of the resampled file"`
	}
}
