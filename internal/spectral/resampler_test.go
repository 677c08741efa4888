package spectral

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/srfresample/pkg/models"
)

func series(pairs ...float64) models.SpectralSeries {
	s := models.SpectralSeries{}
	for i := 0; i+1 < len(pairs); i += 2 {
		s = append(s, models.SpectralSample{Wavelength: pairs[i], Response: pairs[i+1]})
	}
	return s
}

func TestResample_NearNeighbour(t *testing.T) {
	in := series(400, 0.1, 402, 0.3, 405, 0.9)

	got, err := Resample(in, 2, models.NearNeighbour)
	require.NoError(t, err)

	assert.Equal(t, models.ResampledSeries{
		{Wavelength: 400, Response: 0.1},
		{Wavelength: 402, Response: 0.3},
		{Wavelength: 404, Response: 0.9},
	}, got)
}

func TestResample_TieBreakEarliestIndex(t *testing.T) {
	in := series(400, 0.1, 402, 0.2)

	got, err := Resample(in, 1, models.NearNeighbour)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// 401 is equidistant from both samples
	assert.Equal(t, 0.1, got[1].Response)
	assert.Equal(t, 0.2, got[2].Response)
}

func TestResample_TieBreakDuplicateWavelengths(t *testing.T) {
	in := series(400, 0.1, 401, 0.5, 401, 0.7, 402, 0.2)

	got, err := Resample(in, 1, models.NearNeighbour)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got[1].Response)
}

func TestResample_SampleCount(t *testing.T) {
	tests := []struct {
		name  string
		in    models.SpectralSeries
		step  float64
		count int
	}{
		{"unit step", series(400, 0, 410, 0), 1, 11},
		{"fractional step", series(400, 0, 410, 0), 2.5, 5},
		{"step larger than range", series(400, 0, 401, 0), 10, 1},
		{"single sample", series(550, 1), 1, 1},
		{"non integer range", series(400.5, 0, 402, 0), 1, 3},
		{"inverted range", series(410, 0, 400, 0), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resample(tt.in, tt.step, models.NearNeighbour)
			require.NoError(t, err)
			assert.Len(t, got, tt.count)

			want := int(math.Max(0, math.Ceil((tt.in[len(tt.in)-1].Wavelength-tt.in[0].Wavelength+1)/tt.step)))
			assert.Equal(t, want, len(got))
		})
	}
}

func TestResample_WavelengthsAscendFromFirstSample(t *testing.T) {
	in := series(400, 0.1, 407, 0.2, 410, 0.3)

	got, err := Resample(in, 2.5, models.NearNeighbour)
	require.NoError(t, err)

	for i, s := range got {
		assert.Equal(t, 400+float64(i)*2.5, s.Wavelength)
		if i > 0 {
			assert.Greater(t, s.Wavelength, got[i-1].Wavelength)
		}
	}
}

func TestResample_NearestProperty(t *testing.T) {
	in := series(400, 0.11, 401.3, 0.22, 403.9, 0.33, 404, 0.44, 409.2, 0.55, 412, 0.66)

	got, err := Resample(in, 0.7, models.NearNeighbour)
	require.NoError(t, err)

	for _, out := range got {
		bestIdx := -1
		for j, s := range in {
			if bestIdx < 0 || math.Abs(out.Wavelength-s.Wavelength) < math.Abs(out.Wavelength-in[bestIdx].Wavelength) {
				bestIdx = j
			}
		}
		assert.Equal(t, in[bestIdx].Response, out.Response, "wavelength %v", out.Wavelength)
	}
}

func TestResample_Workers(t *testing.T) {
	in := models.SpectralSeries{}
	for i := 0; i < 200; i++ {
		in = append(in, models.SpectralSample{Wavelength: 350 + float64(i)*3.3, Response: float64(i) / 200})
	}

	serial, err := Resample(in, 1, models.NearNeighbour)
	require.NoError(t, err)

	parallel, err := Resample(in, 1, models.NearNeighbour, WithWorkers(7))
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestResample_Trace(t *testing.T) {
	in := series(400, 0.1, 402, 0.3, 405, 0.9)

	var indices []int
	var traced models.ResampledSeries
	got, err := Resample(in, 2, models.NearNeighbour, WithWorkers(3), WithTrace(func(i int, s models.SpectralSample) {
		indices = append(indices, i)
		traced = append(traced, s)
	}))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, indices)
	assert.Equal(t, got, traced)
}

func TestResample_CancelledContext(t *testing.T) {
	in := series(400, 0.1, 402, 0.3, 405, 0.9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		got, err := Resample(in, 0.5, models.NearNeighbour, WithContext(ctx), WithWorkers(workers))
		assert.ErrorIs(t, err, context.Canceled, "workers %d", workers)
		assert.Nil(t, got)
	}
}

func TestResample_MaxSamples(t *testing.T) {
	in := series(400, 0.1, 409, 0.3)

	got, err := Resample(in, 1, models.NearNeighbour, WithMaxSamples(10))
	require.NoError(t, err)
	assert.Len(t, got, 10)

	_, err = Resample(in, 0.5, models.NearNeighbour, WithMaxSamples(10))
	var stepErr *InvalidStepError
	require.ErrorAs(t, err, &stepErr)
	assert.Contains(t, err.Error(), "too many")

	// out of range limits fall back to MaxSamples
	got, err = Resample(in, 0.5, models.NearNeighbour, WithMaxSamples(0))
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestResample_Errors(t *testing.T) {
	in := series(400, 0.1, 402, 0.3)

	t.Run("empty series", func(t *testing.T) {
		_, err := Resample(models.SpectralSeries{}, 1, models.NearNeighbour)
		var empty *EmptySeriesError
		assert.ErrorAs(t, err, &empty)
		assert.ErrorIs(t, err, ErrEmptySeries)
	})

	for _, step := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Resample(in, step, models.NearNeighbour)
		var stepErr *InvalidStepError
		assert.ErrorAs(t, err, &stepErr, "step %v", step)
	}

	t.Run("step too small", func(t *testing.T) {
		_, err := Resample(in, 1e-12, models.NearNeighbour)
		var stepErr *InvalidStepError
		require.ErrorAs(t, err, &stepErr)
		assert.Contains(t, err.Error(), "too many")
	})

	t.Run("linear", func(t *testing.T) {
		got, err := Resample(in, 1, models.Linear)
		var unsupported *UnsupportedMethodError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, models.Linear, unsupported.Method)
		assert.Nil(t, got)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := Resample(in, 1, models.ResampleMethod("Cubic"))
		var unsupported *UnsupportedMethodError
		assert.True(t, errors.As(err, &unsupported))
	})
}

func TestWrite(t *testing.T) {
	got, err := Resample(series(400, 0.1, 402, 0.3, 405, 0.9), 2, models.NearNeighbour)
	require.NoError(t, err)

	assert.Equal(t, "400.0,0.1\n402.0,0.3\n404.0,0.9\n", Encode(got))
}

func TestWrite_FractionalStep(t *testing.T) {
	got, err := Resample(series(0.35, 0.1, 0.45, 0.2), 0.01, models.NearNeighbour)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	lines := strings.Split(strings.TrimSuffix(Encode(got), "\n"), "\n")
	assert.Equal(t, "0.35,0.1", lines[0])
	assert.Equal(t, "0.39,0.1", lines[4])
	assert.Equal(t, "0.4,0.1", lines[5])
	assert.Equal(t, "0.44,0.2", lines[9])
	for _, line := range lines {
		assert.LessOrEqual(t, len(strings.Split(line, ",")[0]), 4, "line %q", line)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_Failure(t *testing.T) {
	err := Write(failingWriter{}, models.ResampledSeries{{Wavelength: 1, Response: 2}})
	assert.ErrorContains(t, err, "disk full")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteFile(path, models.ResampledSeries{{Wavelength: 400, Response: 0.5}, {Wavelength: 402.5, Response: 1}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "400.0,0.5\n402.5,1.0\n", string(data))
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "out.csv"), models.ResampledSeries{})
	assert.Error(t, err)
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		400:                 "400.0",
		0.1:                 "0.1",
		402.5:               "402.5",
		-0.25:               "-0.25",
		0:                   "0.0",
		0.00001:             "1e-05",
		1e16:                "1e+16",
		0.30000001:          "0.30000001",
		1234.000001:         "1234.000001",
		1e12:                "1e+12",
		123456789012:        "123456789012.0",
		1.0 / 3:             "0.333333333333",
		0.38999999999999996: "0.39",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatFloat(in), "FormatFloat(%v)", in)
	}
	assert.Equal(t, "nan", FormatFloat(math.NaN()))
	assert.Equal(t, "-inf", FormatFloat(math.Inf(-1)))
}
