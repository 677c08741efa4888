// Package spectral reads spectral response functions from delimited text and
// resamples them to a uniform wavelength step.
//
// The wavelength range of a series is taken from its first and last samples
// in file order, so inputs are expected to be sorted by ascending wavelength.
// Output samples are chosen by nearest-neighbour lookup; the Linear method is
// recognised but rejected with an UnsupportedMethodError.
package spectral
