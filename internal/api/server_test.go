package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xurtis/screencap/internal/capture"
	"github.com/xurtis/screencap/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	mgr, err := config.NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	capturer, err := capture.New(mgr.Get())
	require.NoError(t, err)
	t.Cleanup(func() { capturer.Close() })

	return NewServer(mgr, capturer)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetConfig(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/config", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"framerate":30`)
	assert.Contains(t, rec.Body.String(), "h264_nvenc")
}

func TestRegionRejectsSelect(t *testing.T) {
	server := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/region?kind=select", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaptureValidation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", "{", http.StatusBadRequest},
		{"unknown mode", `{"mode":"audio"}`, http.StatusBadRequest},
		{"unknown region", `{"region":"desktop"}`, http.StatusBadRequest},
		{"video select", `{"mode":"video","region":"select","duration":5}`, http.StatusBadRequest},
		{"video without duration", `{"mode":"video","region":"screen"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/capture", strings.NewReader(tt.body))
			server.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
