package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/biovote/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote addr", nil, "192.0.2.10"},
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.1"}, "203.0.113.1"},
		{"real ip", map[string]string{"X-Real-IP": " 203.0.113.2 "}, "203.0.113.2"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "203.0.113.3", "X-Real-IP": "203.0.113.4"}, "203.0.113.3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/ballots", nil)
			req.RemoteAddr = "192.0.2.10:40000"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tc.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestCompositeKeyExtractorSkipsEmptyParts(t *testing.T) {
	fixed := func(s string) httpx.KeyExtractor {
		return func(*http.Request) string { return s }
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	require.Equal(t, "a:b", httpx.CompositeKeyExtractor(":", fixed("a"), fixed(""), fixed("b"))(req))
	require.Equal(t, "", httpx.CompositeKeyExtractor(":", fixed(""), fixed(""))(req))
}

func TestSubjectKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/results", nil)
	require.Equal(t, "", httpx.SubjectKeyExtractor(req))

	ctx := context.WithValue(req.Context(), httpx.CtxKeySubject, "official")
	require.Equal(t, "official", httpx.SubjectKeyExtractor(req.WithContext(ctx)))
}

func TestRateLimitMiddlewareRefusesOverBurst(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := httpx.RateLimitByIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/token", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, send("192.0.2.1:1").Code)
	require.Equal(t, http.StatusNoContent, send("192.0.2.1:2").Code)

	rec := send("192.0.2.1:3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))

	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, retry, 1)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "rate_limit_exceeded", body["error"])
	require.NotEmpty(t, body["error_description"])

	// A different client has its own bucket.
	require.Equal(t, http.StatusNoContent, send("192.0.2.2:1").Code)
}

func TestRateLimitMiddlewareAllowsUnkeyedRequests(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	t.Run("unset keeps default", func(t *testing.T) {
		require.Equal(t, def, httpx.ParseRateLimitFromEnv("BALLOT_TEST", def))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_BALLOT_TEST_REQUESTS", "1000")
		t.Setenv("RATELIMIT_BALLOT_TEST_WINDOW_SEC", "10")
		t.Setenv("RATELIMIT_BALLOT_TEST_BURST", "50")

		got := httpx.ParseRateLimitFromEnv("BALLOT_TEST", def)
		require.Equal(t, httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: 10 * time.Second, Burst: 50}, got)
	})

	t.Run("ignores bad values", func(t *testing.T) {
		t.Setenv("RATELIMIT_BALLOT_TEST_REQUESTS", "lots")
		t.Setenv("RATELIMIT_BALLOT_TEST_WINDOW_SEC", "-1")
		t.Setenv("RATELIMIT_BALLOT_TEST_BURST", "0")

		require.Equal(t, def, httpx.ParseRateLimitFromEnv("BALLOT_TEST", def))
	})
}

func TestDefaultProfilesAreOrdered(t *testing.T) {
	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusBadRequest, "invalid_request", "voter_id is required")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"invalid_request","error_description":"voter_id is required"}`, rec.Body.String())
}

func TestParseScopes(t *testing.T) {
	require.Equal(t, []string{"voters:write", "tally:read"}, httpx.ParseScopes("  voters:write   tally:read "))
	require.Nil(t, httpx.ParseScopes("   "))
}
