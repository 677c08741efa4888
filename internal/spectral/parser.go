package spectral

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/RMahshie/srfresample/pkg/models"
)

const maxLineSize = 1 << 20

// ParseOptions selects the columns of a delimited response function file
type ParseOptions struct {
	// Separator splits a line into fields. Empty splits on runs of whitespace.
	Separator        string
	SkipLines        int
	WavelengthColumn int
	ResponseColumn   int
}

// DefaultParseOptions matches the command line defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{WavelengthColumn: 0, ResponseColumn: 1}
}

// Parse reads (wavelength, response) pairs from r in file order.
// The first SkipLines physical lines are discarded without inspection and
// blank lines are ignored.
func Parse(r io.Reader, opts ParseOptions) (models.SpectralSeries, error) {
	required := max(opts.WavelengthColumn, opts.ResponseColumn) + 1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	series := models.SpectralSeries{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo <= opts.SkipLines {
			continue
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := splitFields(line, opts.Separator)
		if opts.WavelengthColumn < 0 || opts.ResponseColumn < 0 || len(fields) < required {
			return nil, &MalformedRowError{Line: lineNo, Fields: len(fields), Required: required}
		}

		wv, err := parseField(fields, opts.WavelengthColumn, lineNo)
		if err != nil {
			return nil, err
		}
		resp, err := parseField(fields, opts.ResponseColumn, lineNo)
		if err != nil {
			return nil, err
		}

		series = append(series, models.SpectralSample{Wavelength: wv, Response: resp})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read response function: %w", err)
	}

	return series, nil
}

// ParseFile opens path and parses it with Parse. The file is closed on return.
func ParseFile(path string, opts ParseOptions) (models.SpectralSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	return Parse(f, opts)
}

func splitFields(line, sep string) []string {
	if sep == "" {
		return strings.Fields(line)
	}
	return strings.Split(line, sep)
}

func parseField(fields []string, col, lineNo int) (float64, error) {
	raw := strings.TrimSpace(fields[col])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &NumericParseError{Line: lineNo, Column: col, Value: raw, Err: err}
	}
	return v, nil
}
