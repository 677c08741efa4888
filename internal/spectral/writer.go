package spectral

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/RMahshie/srfresample/pkg/models"
)

// OutputSeparator separates wavelength and response in written files.
const OutputSeparator = ","

// Write serialises rs as one "wavelength,response" line per sample.
func Write(w io.Writer, rs models.ResampledSeries) error {
	bw := bufio.NewWriter(w)
	for _, s := range rs {
		line := FormatFloat(s.Wavelength) + OutputSeparator + FormatFloat(s.Response) + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write resampled series: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write resampled series: %w", err)
	}
	return nil
}

// WriteFile writes rs to path. A partially written file is removed on failure.
func WriteFile(path string, rs models.ResampledSeries) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()

	return Write(f, rs)
}

// Encode returns rs in the written text form.
func Encode(rs models.ResampledSeries) string {
	var sb strings.Builder
	_ = Write(&sb, rs)
	return sb.String()
}

// FormatFloat renders v with 12 significant digits, always with a
// fractional part or an exponent ("400.0", "0.39", "1e-05"). Exponent
// notation is used below 1e-4 and from 1e12 upwards.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(v, 'g', formatPrecision, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

const formatPrecision = 12

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
