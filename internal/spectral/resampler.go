package spectral

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/RMahshie/srfresample/pkg/models"
)

// MaxSamples bounds the output length so a tiny step cannot exhaust memory.
const MaxSamples = 50_000_000

// cancelCheckInterval is how many output samples are computed between
// context checks.
const cancelCheckInterval = 4096

// TraceFunc is called once per output sample, in ascending order, after the
// whole series has been computed.
type TraceFunc func(index int, sample models.SpectralSample)

type config struct {
	ctx        context.Context
	trace      TraceFunc
	workers    int
	maxSamples int
}

// Option configures Resample.
type Option func(*config)

// WithTrace installs a hook invoked for every output sample.
func WithTrace(fn TraceFunc) Option {
	return func(cfg *config) {
		cfg.trace = fn
	}
}

// WithContext aborts the search with ctx.Err() once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}

// WithMaxSamples lowers the output length bound below MaxSamples.
// Values outside (0, MaxSamples] keep MaxSamples.
func WithMaxSamples(n int) Option {
	return func(cfg *config) {
		if n > 0 && n <= MaxSamples {
			cfg.maxSamples = n
		}
	}
}

// WithWorkers splits the nearest-neighbour search across n goroutines.
// Values below 2 keep the search on the calling goroutine.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// SampleCount returns the number of output samples for series at step:
// ceil((last - first + 1) / step), where first and last are taken by
// position. A non-positive result yields zero.
func SampleCount(series models.SpectralSeries, step float64) int {
	return sampleCount(series, step, MaxSamples)
}

// sampleCount saturates at limit+1 so oversized results are detectable
// without overflowing int.
func sampleCount(series models.SpectralSeries, step float64, limit int) int {
	if len(series) == 0 {
		return 0
	}
	minWv := series[0].Wavelength
	maxWv := series[len(series)-1].Wavelength
	n := math.Ceil((maxWv - minWv + 1) / step)
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > float64(limit) {
		return limit + 1
	}
	return int(n)
}

// Resample computes series at a uniform wavelength step starting at the
// wavelength of its first sample.
func Resample(series models.SpectralSeries, step float64, method models.ResampleMethod, opts ...Option) (models.ResampledSeries, error) {
	cfg := config{ctx: context.Background(), workers: 1, maxSamples: MaxSamples}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(series) == 0 {
		return nil, &EmptySeriesError{}
	}
	if math.IsNaN(step) || step <= 0 {
		return nil, &InvalidStepError{Step: step}
	}
	if math.IsInf(step, 1) {
		return nil, &InvalidStepError{Step: step, Reason: "must be finite"}
	}

	switch method {
	case models.NearNeighbour:
	case models.Linear:
		// Recognised but deliberately not computed.
		return nil, &UnsupportedMethodError{Method: method}
	default:
		return nil, &UnsupportedMethodError{Method: method}
	}

	count := sampleCount(series, step, cfg.maxSamples)
	if count > cfg.maxSamples {
		return nil, &InvalidStepError{Step: step, Reason: "too many output samples"}
	}

	minWv := series[0].Wavelength
	out := make(models.ResampledSeries, count)
	fill := func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if (i-lo)%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			wv := minWv + float64(i)*step
			out[i] = models.SpectralSample{Wavelength: wv, Response: series[nearest(series, wv)].Response}
		}
		return nil
	}

	if cfg.workers > 1 && count > 1 {
		g, ctx := errgroup.WithContext(cfg.ctx)
		chunk := (count + cfg.workers - 1) / cfg.workers
		for lo := 0; lo < count; lo += chunk {
			lo, hi := lo, min(lo+chunk, count)
			g.Go(func() error {
				return fill(ctx, lo, hi)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else if err := fill(cfg.ctx, 0, count); err != nil {
		return nil, err
	}

	if cfg.trace != nil {
		for i, s := range out {
			cfg.trace(i, s)
		}
	}

	return out, nil
}

// nearest returns the index of the sample closest to wv. Among equal
// distances the earliest index wins.
func nearest(series models.SpectralSeries, wv float64) int {
	best := 0
	bestDist := math.Abs(wv - series[0].Wavelength)
	for j := 1; j < len(series); j++ {
		if d := math.Abs(wv - series[j].Wavelength); d < bestDist {
			best = j
			bestDist = d
		}
	}
	return best
}
