package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/RMahshie/srfresample/internal/spectral"
	"github.com/RMahshie/srfresample/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// MaxResampleSamples bounds the output of a single synchronous request
const MaxResampleSamples = 1_000_000

// ResampleHandler serves synchronous resampling of in-line series
type ResampleHandler struct {
	workers int
}

// NewResampleHandler creates a new resample handler
func NewResampleHandler(workers int) *ResampleHandler {
	return &ResampleHandler{workers: workers}
}

// Resample parses the request content (or takes its samples) and returns the resampled series
func (h *ResampleHandler) Resample(ctx context.Context, req *models.ResampleRequest) (*models.ResampleResponse, error) {
	body := req.Body

	series := models.SpectralSeries(body.Samples)
	if len(series) == 0 {
		parsed, err := spectral.Parse(strings.NewReader(body.Content), spectral.ParseOptions{
			Separator:        body.Separator,
			SkipLines:        body.SkipLines,
			WavelengthColumn: body.WavelengthColumn,
			ResponseColumn:   body.ResponseColumn,
		})
		if err != nil {
			return nil, resampleError(err)
		}
		series = parsed
	}

	method := body.Method
	if method == "" {
		method = models.NearNeighbour
	}

	step := models.StepOrDefault(body.Step)
	out, err := spectral.Resample(series, step, method,
		spectral.WithContext(ctx),
		spectral.WithWorkers(h.workers),
		spectral.WithMaxSamples(MaxResampleSamples),
	)
	if err != nil {
		return nil, resampleError(err)
	}

	log.Info().Int("input", len(series)).Int("output", len(out)).Float64("step", step).Msg("Resampled in-line series")
	return &models.ResampleResponse{
		Body: models.ResampleResponseBody{
			InputCount:  len(series),
			SampleCount: len(out),
			Samples:     out,
			CSV:         spectral.Encode(out),
		},
	}, nil
}

// resampleError maps core errors to HTTP errors
func resampleError(err error) error {
	var (
		malformed   *spectral.MalformedRowError
		numeric     *spectral.NumericParseError
		step        *spectral.InvalidStepError
		unsupported *spectral.UnsupportedMethodError
	)

	switch {
	case errors.As(err, &unsupported):
		return huma.Error422UnprocessableEntity(err.Error(), err)
	case errors.As(err, &malformed), errors.As(err, &numeric), errors.As(err, &step), errors.Is(err, spectral.ErrEmptySeries):
		return huma.Error400BadRequest(err.Error(), err)
	default:
		return huma.Error500InternalServerError("Failed to resample", err)
	}
}
