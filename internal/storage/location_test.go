package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw     string
		want    Location
		object  bool
		wantErr bool
	}{
		{raw: "srf/landsat8_b2.txt", want: Location{Path: "srf/landsat8_b2.txt"}},
		{raw: "/abs/out.csv", want: Location{Path: "/abs/out.csv"}},
		{raw: "s3://srf-data/in/band1.txt", want: Location{Bucket: "srf-data", Key: "in/band1.txt"}, object: true},
		{raw: "s3://srf-data", wantErr: true},
		{raw: "s3://srf-data/", wantErr: true},
		{raw: "s3:///key", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseLocation(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.object, got.IsObject())
			assert.Equal(t, tt.raw, got.String())
		})
	}
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, validateContentType("text/csv"))
	assert.NoError(t, validateContentType("text/plain"))
	assert.Error(t, validateContentType("audio/wav"))
}
