package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/srfresample/internal/processing"
	"github.com/RMahshie/srfresample/internal/repository/memory"
	"github.com/RMahshie/srfresample/pkg/models"
)

func newTestRouter() http.Handler {
	runs := memory.NewRunRepository()
	return NewRouter(Deps{
		Runs:           runs,
		Processing:     processing.NewProcessingService(nil, runs, 1),
		AllowedOrigins: []string{"http://localhost:5173"},
		Workers:        1,
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, Version, body.Version)
}

func TestResampleEndpoint(t *testing.T) {
	payload := `{"content":"400 0.1\n402 0.3\n405 0.9\n","response_column":1,"step":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/resample", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body models.ResampleResponseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.InputCount)
	assert.Equal(t, "400.0,0.1\n402.0,0.3\n404.0,0.9\n", body.CSV)
}

func TestResampleEndpoint_Linear(t *testing.T) {
	payload := `{"content":"400 0.1\n402 0.3\n","response_column":1,"step":1,"method":"Linear"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resample", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateRunWithoutObjectStorage(t *testing.T) {
	payload := `{"input_key":"in/b1.txt","response_column":1,"step":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResampleEndpoint_Step(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus int
		wantCount  int
	}{
		{"omitted step defaults to 1", `{"content":"400 0.1\n402 0.3\n","response_column":1}`, http.StatusOK, 3},
		{"zero step is rejected", `{"content":"400 0.1\n402 0.3\n","response_column":1,"step":0}`, http.StatusBadRequest, 0},
		{"negative step is rejected", `{"content":"400 0.1\n402 0.3\n","response_column":1,"step":-2}`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/resample", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			newTestRouter().ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var body models.ResampleResponseBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCount, body.SampleCount)
		})
	}
}
