package storage

import (
	"fmt"
	"strings"
)

const s3Scheme = "s3://"

// Location names an input or output as either a local path or an object
// addressed as s3://bucket/key.
type Location struct {
	Path   string
	Bucket string
	Key    string
}

// ParseLocation classifies raw as a local path or an s3:// URI.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if !strings.HasPrefix(raw, s3Scheme) {
		return Location{Path: raw}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid object location %q: want s3://bucket/key", raw)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// IsObject reports whether l lives in object storage.
func (l Location) IsObject() bool {
	return l.Key != ""
}

func (l Location) String() string {
	if l.IsObject() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}
