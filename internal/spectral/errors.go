package spectral

import (
	"errors"
	"fmt"

	"github.com/RMahshie/srfresample/pkg/models"
)

// ErrEmptySeries is matched by EmptySeriesError via errors.Is.
var ErrEmptySeries = errors.New("spectral: empty series")

// MalformedRowError reports a data line with too few fields.
type MalformedRowError struct {
	Line     int // 1-based physical line number
	Fields   int
	Required int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("spectral: line %d has %d fields, need at least %d", e.Line, e.Fields, e.Required)
}

// NumericParseError reports a wavelength or response field that is not a number.
type NumericParseError struct {
	Line   int
	Column int
	Value  string
	Err    error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("spectral: line %d column %d: cannot parse %q as a number", e.Line, e.Column, e.Value)
}

func (e *NumericParseError) Unwrap() error {
	return e.Err
}

// EmptySeriesError is returned when there is nothing to resample.
type EmptySeriesError struct{}

func (e *EmptySeriesError) Error() string {
	return "spectral: no samples to resample"
}

func (e *EmptySeriesError) Is(target error) bool {
	return target == ErrEmptySeries
}

// InvalidStepError is returned for a non-positive, non-finite or too small sampling step.
type InvalidStepError struct {
	Step   float64
	Reason string
}

func (e *InvalidStepError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("spectral: invalid sampling step %v: %s", e.Step, e.Reason)
	}
	return fmt.Sprintf("spectral: invalid sampling step %v: must be positive", e.Step)
}

// UnsupportedMethodError is returned for any method other than NearNeighbour.
type UnsupportedMethodError struct {
	Method models.ResampleMethod
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("spectral: method of resampling %q is not supported", string(e.Method))
}
