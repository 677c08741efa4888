package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/srfresample/internal/spectral"
	"github.com/RMahshie/srfresample/internal/storage"
	"github.com/RMahshie/srfresample/pkg/models"
)

// ErrNoObjectStore is returned when an s3:// location is used without S3 configured
var ErrNoObjectStore = errors.New("object storage is not configured")

// Job describes one parse-resample-write pass
type Job struct {
	Input   storage.Location
	Output  storage.Location
	Parse   spectral.ParseOptions
	Step    float64
	Method  models.ResampleMethod
	Workers int
}

// Result is the outcome of a completed job
type Result struct {
	Input  models.SpectralSeries
	Output models.ResampledSeries
}

// Resampler runs jobs against local files and object storage
type Resampler struct {
	s3    storage.S3Service
	trace spectral.TraceFunc
}

// NewResampler creates a resampler. s3 may be nil when only local paths are used.
func NewResampler(s3Service storage.S3Service) *Resampler {
	return &Resampler{s3: s3Service, trace: logSample}
}

// WithTrace replaces the per-sample hook, which logs at debug level by default
func (r *Resampler) WithTrace(fn spectral.TraceFunc) *Resampler {
	cp := *r
	cp.trace = fn
	return &cp
}

// Execute reads, resamples and writes job. Nothing is written unless
// resampling succeeds.
func (r *Resampler) Execute(ctx context.Context, job Job) (*Result, error) {
	series, err := r.read(ctx, job.Input, job.Parse)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("input", job.Input.String()).Int("samples", len(series)).Msg("Parsed response function")

	opts := []spectral.Option{spectral.WithContext(ctx), spectral.WithWorkers(job.Workers)}
	if r.trace != nil {
		opts = append(opts, spectral.WithTrace(r.trace))
	}
	out, err := spectral.Resample(series, job.Step, job.Method, opts...)
	if err != nil {
		return nil, err
	}

	if err := r.write(ctx, job.Output, out); err != nil {
		return nil, err
	}
	log.Info().
		Str("input", job.Input.String()).
		Str("output", job.Output.String()).
		Int("input_samples", len(series)).
		Int("output_samples", len(out)).
		Float64("step", job.Step).
		Msg("Resampled response function")

	return &Result{Input: series, Output: out}, nil
}

func (r *Resampler) read(ctx context.Context, loc storage.Location, opts spectral.ParseOptions) (models.SpectralSeries, error) {
	if !loc.IsObject() {
		return spectral.ParseFile(loc.Path, opts)
	}
	if r.s3 == nil {
		return nil, fmt.Errorf("%s: %w", loc, ErrNoObjectStore)
	}

	data, err := r.s3.WithBucket(loc.Bucket).DownloadFile(ctx, loc.Key)
	if err != nil {
		return nil, err
	}
	return spectral.Parse(bytes.NewReader(data), opts)
}

func (r *Resampler) write(ctx context.Context, loc storage.Location, out models.ResampledSeries) error {
	if !loc.IsObject() {
		return spectral.WriteFile(loc.Path, out)
	}
	if r.s3 == nil {
		return fmt.Errorf("%s: %w", loc, ErrNoObjectStore)
	}

	return r.s3.WithBucket(loc.Bucket).Upload(ctx, loc.Key, []byte(spectral.Encode(out)), "text/csv")
}

func logSample(i int, s models.SpectralSample) {
	log.Debug().
		Int("index", i).
		Float64("wavelength", s.Wavelength).
		Float64("response", s.Response).
		Msg("Resampled sample")
}
