package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/clearpathcoverage/dst-compiler/internal/adapter/http"
	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockCorpus struct {
	records []domain.DisasterRecord
}

func (m *mockCorpus) Records() []domain.DisasterRecord { return m.records }

func newTestServer(readyErr error, records ...domain.DisasterRecord) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, &mockCorpus{records: records}, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("no messages processed"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no messages processed", body["error"])
}

func TestCorpusSummary(t *testing.T) {
	srv := newTestServer(nil,
		domain.DisasterRecord{ID: "FEMA-DR-4781-TX", Source: domain.SourceFEMA, State: "TX", Status: domain.StatusActive},
		domain.DisasterRecord{ID: "STATE-WILDFIRE-2026-CA", Source: domain.SourceState, State: "CA", Status: domain.StatusOngoing},
		domain.DisasterRecord{ID: "HHS-PHE-FLU-2026-NY", Source: domain.SourceHHS, State: "NY", Status: domain.StatusOngoing},
	)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/corpus/summary", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RecordCount int            `json:"recordCount"`
		BySource    map[string]int `json:"bySource"`
		ByStatus    map[string]int `json:"byStatus"`
		ByState     map[string]int `json:"byState"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.RecordCount)
	assert.Equal(t, map[string]int{"FEMA": 1, "STATE": 1, "HHS": 1}, body.BySource)
	assert.Equal(t, map[string]int{"active": 1, "ongoing": 2}, body.ByStatus)
	assert.Equal(t, 1, body.ByState["TX"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
