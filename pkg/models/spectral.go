package models

import "fmt"

// SpectralSample represents a single point of a spectral response function
type SpectralSample struct {
	Wavelength float64 `json:"wavelength" doc:"Wavelength, conventionally in nm"`
	Response   float64 `json:"response" doc:"Normalised spectral response"`
}

// SpectralSeries is an ordered sequence of samples as read from the input
type SpectralSeries []SpectralSample

// ResampledSeries is an ordered sequence of samples at a uniform step
type ResampledSeries []SpectralSample

// ResampleMethod selects how output samples are derived from the input series
type ResampleMethod string

const (
	NearNeighbour ResampleMethod = "NearNeighbour"
	Linear        ResampleMethod = "Linear"
)

// ResampleMethods lists the methods accepted on the command line
var ResampleMethods = []ResampleMethod{NearNeighbour, Linear}

// ParseResampleMethod validates a method name. Only the exact spellings in
// ResampleMethods are accepted.
func ParseResampleMethod(s string) (ResampleMethod, error) {
	for _, m := range ResampleMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid resample method %q (choose from NearNeighbour, Linear)", s)
}

func (m ResampleMethod) String() string {
	return string(m)
}
