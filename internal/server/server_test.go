package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisurvey/soilreport/internal/config"
	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	s := New(grading.NewRegistry(), st, config.ServerConfig{RateLimit: 1000, RateBurst: 1000})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestStandards(t *testing.T) {
	_, ts := newTestServer(t)

	var listing struct {
		Standards []grading.StandardInfo `json:"standards"`
		Active    string                 `json:"active"`
	}
	resp := getJSON(t, ts.URL+"/api/standards", &listing)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jiangsu", listing.Active)
	require.NotEmpty(t, listing.Standards)

	resp = getJSON(t, ts.URL+"/api/standards/jiangsu", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/api/standards/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/standards/active", map[string]string{"id": "nope"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/standards/active", map[string]string{"id": "jiangsu"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateReport_Validation(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/reports", map[string]any{"name": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/reports", map[string]any{
		"name":         "x",
		"standard_id":  "nope",
		"sample_files": []string{"a.csv"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateReport_Lifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(csvPath,
		[]byte("行政区名称,OM\n东镇,25\n东镇,45\n"), 0o644))

	var rec store.ReportRecord
	resp := postJSON(t, ts.URL+"/api/reports", map[string]any{
		"name":         "春季调查",
		"sample_files": []string{csvPath},
	}, &rec)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, store.ReportQueued, rec.Status)

	// Generation runs in the background; poll until it lands.
	deadline := time.Now().Add(5 * time.Second)
	var got store.ReportRecord
	for {
		resp = getJSON(t, ts.URL+"/api/reports/"+rec.ID, &got)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		if got.Status != store.ReportQueued || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.Equal(t, store.ReportComplete, got.Status)
	require.NotNil(t, got.Result)
	require.Len(t, got.Result.Attributes, 1)
	assert.Equal(t, "OM", got.Result.Attributes[0].Key)

	var listed []store.ReportRecord
	resp = getJSON(t, ts.URL+"/api/reports", &listed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].Result)
}

func TestCreateReport_FailureRecorded(t *testing.T) {
	_, ts := newTestServer(t)

	var rec store.ReportRecord
	resp := postJSON(t, ts.URL+"/api/reports", map[string]any{
		"name":         "bad",
		"sample_files": []string{filepath.Join(t.TempDir(), "missing.csv")},
	}, &rec)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	deadline := time.Now().Add(5 * time.Second)
	var got store.ReportRecord
	for {
		getJSON(t, ts.URL+"/api/reports/"+rec.ID, &got)
		if got.Status != store.ReportQueued || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.Equal(t, store.ReportFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestGenerate_ExpiredContextStillRecordsFailure(t *testing.T) {
	s, _ := newTestServer(t)

	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte("OM\n25\n"), 0o644))

	rec, err := s.store.CreateReport(context.Background(), "timed out", s.registry.ActiveID())
	require.NoError(t, err)

	// Generation context already dead, as after a deadline fires mid-run.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.generate(ctx, rec.ID, s.registry.ActiveID(), nil, []string{path})

	got, err := s.store.GetReport(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ReportFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestGetReport_NotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp := getJSON(t, ts.URL+"/api/reports/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegions(t *testing.T) {
	_, ts := newTestServer(t)

	var region store.Region
	resp := postJSON(t, ts.URL+"/api/regions", map[string]string{"name": "东镇", "parent": "示范县"}, &region)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, region.ID)

	resp = postJSON(t, ts.URL+"/api/regions", map[string]string{"parent": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var regions []store.Region
	resp = getJSON(t, ts.URL+"/api/regions", &regions)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, regions, 1)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/regions/"+region.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	delResp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	s := New(grading.NewRegistry(), st, config.ServerConfig{RateLimit: 1, RateBurst: 1})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	resp := getJSON(t, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = getJSON(t, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestNoStore(t *testing.T) {
	s := New(grading.NewRegistry(), nil, config.ServerConfig{RateLimit: 1000, RateBurst: 1000})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	resp := getJSON(t, ts.URL+"/api/reports", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
