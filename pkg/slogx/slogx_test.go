package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/biovote/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{Service: "booth", Version: "test", Env: "prod", Level: "warn", Output: &buf})

	log.Info("dropped")
	log.Warn("kept", "voter_id", "V-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "booth", line["service"])
	require.Equal(t, "V-1", line["voter_id"])
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{Service: "booth", Format: "text", Output: &buf})

	ctx := slogx.With(slogx.WithContext(context.Background(), log), "voter_id", "V-2")
	slogx.FromContext(ctx).Info("hello")
	require.Contains(t, buf.String(), "voter_id=V-2")

	require.NotNil(t, slogx.FromContext(context.Background()))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{Service: "booth", Output: &buf})

	h := slogx.HTTPMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "req-123")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	require.Contains(t, buf.String(), `"req_id":"req-123"`)
	require.Contains(t, buf.String(), `"status":418`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Len(t, rec.Header().Get("X-Request-ID"), 26)
}
