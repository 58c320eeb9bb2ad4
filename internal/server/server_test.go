package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"lumo/internal/storage"
)

func testConfig() Config {
	return Config{
		Address:             "127.0.0.1:0",
		Version:             "test",
		RetentionCfg:        storage.CleanupConfig{RetentionDays: 30, CleanupIntervalMins: 60},
		MaxConcurrentIngest: 4,
		MaxConcurrentQuery:  4,
	}
}

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(context.Background(), storage.Options{
		Driver: storage.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "lumo.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestHandler(t *testing.T) (http.Handler, *storage.Storage) {
	t.Helper()
	s := newTestStore(t)
	return NewHandler(testConfig(), s), s
}

func do(h http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
