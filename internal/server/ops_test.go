package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(h, http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, "test", resp.Version)
}

func TestHealthDatabaseDown(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(testConfig(), s)
	require.NoError(t, s.Close())

	rec := do(h, http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeJSON[HealthResponse](t, rec)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "disconnected", resp.Database)
}

func TestStats(t *testing.T) {
	h, s := newTestHandler(t)
	seedEvents(t, s)

	rec := do(h, http.MethodGet, "/stats", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[StatsResponse](t, rec)
	assert.Equal(t, "sqlite", resp.Database.Driver)
	assert.NotEmpty(t, resp.Database.Size)
	assert.Equal(t, int64(4), resp.Tables.Events)
	assert.Equal(t, int64(2), resp.Sessions)
	assert.True(t, resp.Retention.Enabled)
	assert.Equal(t, 30, resp.Retention.Days)
	assert.Nil(t, resp.Cleanup)
}

func query(h http.Handler, sql string) *httptest.ResponseRecorder {
	form := url.Values{"sql": {sql}}.Encode()
	return do(h, http.MethodPost, "/query", []byte(form), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

func TestQuery(t *testing.T) {
	h, s := newTestHandler(t)
	seedEvents(t, s)

	rec := query(h, "SELECT id, name FROM events WHERE session_id = 's1' ORDER BY timestamp")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[QueryResponse](t, rec)
	assert.Equal(t, []string{"id", "name"}, resp.Columns)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "e1", resp.Rows[0]["id"])
	assert.Equal(t, "claude_code.user_prompt", resp.Rows[0]["name"])
}

func TestQueryRejects(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		sql  string
	}{
		{"empty", ""},
		{"not select", "DELETE FROM events"},
		{"multi statement", "SELECT 1; DROP TABLE events"},
		{"unknown table", "SELECT * FROM nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := query(h, tt.sql)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(h, http.MethodGet, "/query?sql=SELECT+1", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	do(h, http.MethodPost, "/v1/metrics", protoBody(t, tokenUsageRequest("s1", 1, 2)), protoHeaders())
	do(h, http.MethodGet, "/health", nil, nil)

	rec := do(h, http.MethodGet, "/metrics", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `lumo_ingest_records_total{outcome="accepted",signal="metrics"} 2`)
	assert.Contains(t, body, `lumo_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestSemaphoreRefusesWhenFull(t *testing.T) {
	m := newServerMetrics()
	sem := NewSemaphore("query", 1, m)

	entered := make(chan struct{})
	release := make(chan struct{})
	h := sem.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}()
	<-entered

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	scrape := httptest.NewRecorder()
	m.handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `lumo_http_rejected_busy_total{pool="query"} 1`)

	close(release)
	wg.Wait()
}

type panicStore struct {
	Store
}

func (panicStore) Health(context.Context) error {
	panic(errors.New("boom"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := NewHandler(testConfig(), panicStore{})

	rec := do(h, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(h, http.MethodGet, "/v1/traces", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
