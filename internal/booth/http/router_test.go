package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/biometric"
	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	boothhttp "github.com/aussiebroadwan/biovote/internal/booth/http"
	"github.com/aussiebroadwan/biovote/internal/booth/service"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/internal/booth/store/drivers/memory"
	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/aussiebroadwan/biovote/pkg/cryptox"
	"github.com/aussiebroadwan/biovote/pkg/jwtx"
	"github.com/aussiebroadwan/biovote/pkg/slogx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

const testIssuer = "biovote-test"

type testBooth struct {
	router *boothhttp.Router
	secret string
}

func newTestBooth(t *testing.T) *testBooth {
	t.Helper()
	return newTestBoothWithStore(t, memory.NewStore())
}

func newTestBoothWithStore(t *testing.T, st store.Store) *testBooth {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("booth-test", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	secret, _, err := service.NewOfficialSecret(testIssuer)
	require.NoError(t, err)

	// Samples spell their own score so each request picks its outcome.
	verifier, err := biometric.NewVerifier(biometric.VerifierOptions{
		Normalizer: biometric.NormalizerFunc(func(s biometric.Sample) (biometric.Image, error) {
			if len(s) == 0 {
				return biometric.Image{}, biometric.ErrInvalidSample
			}
			return biometric.Image{Width: len(s), Height: 1, Pix: s}, nil
		}),
		Oracle: biometric.OracleFunc(func(a, _ biometric.Image) (float64, error) {
			f, err := strconv.ParseFloat(string(a.Pix), 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %v", biometric.ErrInvalidSample, err)
			}
			return f, nil
		}),
		FaceThreshold: 0.8,
		EyeThreshold:  0.8,
	})
	require.NoError(t, err)

	logger := slogx.Discard()

	r := boothhttp.NewRouter(keys, jwtx.NewVerifierEdDSA(keys, testIssuer), "test", st, logger, 1<<10)
	r.EnrollmentService = &service.EnrollmentService{Store: st, Verifier: verifier}
	r.BallotService = service.NewBallotService(st, verifier)
	r.OfficialService = &service.OfficialService{
		Secret: secret,
		Signer: signer,
		Issuer: testIssuer,
		TTL:    time.Minute,
	}
	r.IntegrityService = service.NewIntegrityService(st, logger, time.Minute)
	r.ApplyRoutes()

	return &testBooth{router: r, secret: secret}
}

func (b *testBooth) do(req *http.Request) *httptest.ResponseRecorder {
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)
	return rec
}

func (b *testBooth) token(t *testing.T) string {
	t.Helper()
	code, err := totp.GenerateCode(b.secret, time.Now())
	require.NoError(t, err)

	form := url.Values{"code": {code}}
	req := httptest.NewRequest(http.MethodPost, "/v1/officials/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := b.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tok boothsdk.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.Equal(t, "Bearer", tok.TokenType)
	return tok.AccessToken
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (b *testBooth) enroll(t *testing.T, token, voterID string) *httptest.ResponseRecorder {
	t.Helper()
	req := multipartRequest(t, "/v1/voters",
		map[string]string{"voter_id": voterID},
		map[string]string{"face": "face-template", "eye": "eye-template"},
	)
	req.Header.Set("Authorization", "Bearer "+token)
	return b.do(req)
}

func (b *testBooth) cast(t *testing.T, voterID, candidate, face, eye string) *httptest.ResponseRecorder {
	t.Helper()
	files := map[string]string{}
	if face != "" {
		files["face"] = face
	}
	if eye != "" {
		files["eye"] = eye
	}
	return b.do(multipartRequest(t, "/v1/ballots",
		map[string]string{"voter_id": voterID, "candidate": candidate},
		files,
	))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) boothsdk.ErrorResponse {
	t.Helper()
	var e boothsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestHealthEndpoints(t *testing.T) {
	b := newTestBooth(t)

	rec := b.do(httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health boothsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
	require.Equal(t, "ok", health.Checks.Integrity)
}

func TestOfficialToken(t *testing.T) {
	b := newTestBooth(t)

	t.Run("missing code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/officials/token", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := b.do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, boothsdk.ErrorCodeInvalidRequest, decodeError(t, rec).Error)
	})

	t.Run("wrong code", func(t *testing.T) {
		form := url.Values{"code": {"12345x"}}
		req := httptest.NewRequest(http.MethodPost, "/v1/officials/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := b.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, boothsdk.ErrorCodeInvalidCode, decodeError(t, rec).Error)
	})

	t.Run("valid code", func(t *testing.T) {
		require.NotEmpty(t, b.token(t))
	})
}

func TestVoterEndpoints(t *testing.T) {
	b := newTestBooth(t)
	token := b.token(t)

	t.Run("requires token", func(t *testing.T) {
		rec := b.enroll(t, "", "V-1001")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("enroll", func(t *testing.T) {
		rec := b.enroll(t, token, "V-1001")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var v boothsdk.VoterResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
		require.Equal(t, "V-1001", v.VoterID)
		require.Equal(t, "eligible", v.Status)
		require.Nil(t, v.VotedAt)
	})

	t.Run("enroll twice", func(t *testing.T) {
		rec := b.enroll(t, token, "V-1001")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, boothsdk.ErrorCodeAlreadyEnrolled, decodeError(t, rec).Error)
	})

	t.Run("enroll missing sample", func(t *testing.T) {
		req := multipartRequest(t, "/v1/voters",
			map[string]string{"voter_id": "V-1002"},
			map[string]string{"face": "face-template"},
		)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := b.do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, boothsdk.ErrorCodeInvalidSample, decodeError(t, rec).Error)
	})

	t.Run("enroll oversized sample", func(t *testing.T) {
		req := multipartRequest(t, "/v1/voters",
			map[string]string{"voter_id": "V-1003"},
			map[string]string{"face": strings.Repeat("f", 2<<10), "eye": "eye-template"},
		)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := b.do(req)
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/voters/V-1001", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := b.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), "template")
	})

	t.Run("get unknown", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/voters/V-9999", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := b.do(req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCastBallot(t *testing.T) {
	b := newTestBooth(t)
	token := b.token(t)
	for _, id := range []string{"V-1", "V-2", "V-3", "V-4"} {
		require.Equal(t, http.StatusCreated, b.enroll(t, token, id).Code)
	}

	t.Run("committed", func(t *testing.T) {
		rec := b.cast(t, "V-1", "Alice", "0.95", "0.9")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var receipt boothsdk.ReceiptResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
		require.Equal(t, boothsdk.OutcomeCommitted, receipt.Outcome)
		require.Equal(t, "Alice", receipt.Candidate)
		require.NotEmpty(t, receipt.BallotID)
		require.InDelta(t, 0.95, receipt.FaceScore, 1e-9)
		require.InDelta(t, 0.9, receipt.EyeScore, 1e-9)
	})

	t.Run("second ballot conflicts", func(t *testing.T) {
		rec := b.cast(t, "V-1", "Bob", "0.95", "0.9")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, boothsdk.OutcomeConflict, decodeError(t, rec).Outcome)
	})

	t.Run("refusals", func(t *testing.T) {
		tests := []struct {
			name      string
			voterID   string
			candidate string
			face, eye string
			status    int
			outcome   string
			code      string
		}{
			{"face below threshold", "V-2", "Alice", "0.5", "0.99", http.StatusForbidden, boothsdk.OutcomeRejected, boothsdk.ErrorCodeRejected},
			{"eye below threshold", "V-2", "Alice", "0.99", "0.79", http.StatusForbidden, boothsdk.OutcomeRejected, boothsdk.ErrorCodeRejected},
			{"no eye sample", "V-2", "Alice", "0.99", "", http.StatusForbidden, boothsdk.OutcomeRejected, boothsdk.ErrorCodeRejected},
			{"unknown voter", "V-404", "Alice", "0.99", "0.99", http.StatusNotFound, boothsdk.OutcomeNotFound, boothsdk.ErrorCodeNotFound},
			{"undecodable sample", "V-3", "Alice", "not-a-score", "0.99", http.StatusBadRequest, boothsdk.OutcomeInvalidSample, boothsdk.ErrorCodeInvalidSample},
			{"missing candidate", "V-4", "  ", "0.99", "0.99", http.StatusBadRequest, "", boothsdk.ErrorCodeInvalidRequest},
			{"missing voter", "", "Alice", "0.99", "0.99", http.StatusBadRequest, "", boothsdk.ErrorCodeInvalidRequest},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := b.cast(t, tt.voterID, tt.candidate, tt.face, tt.eye)
				require.Equal(t, tt.status, rec.Code, rec.Body.String())
				e := decodeError(t, rec)
				require.Equal(t, tt.code, e.Error)
				require.Equal(t, tt.outcome, e.Outcome)
			})
		}
	})

	t.Run("refusals leave voters eligible", func(t *testing.T) {
		rec := b.cast(t, "V-2", "Bob", "0.9", "0.9")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("results", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/results", nil)
		rec := b.do(req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/v1/results", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec = b.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var results boothsdk.ResultsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Equal(t, 2, results.Total)
		require.Equal(t, []boothsdk.CandidateResult{
			{Candidate: "Alice", Votes: 1},
			{Candidate: "Bob", Votes: 1},
		}, results.Results)
	})
}

func TestCastBallotRateLimitedPerVoter(t *testing.T) {
	b := newTestBooth(t)
	token := b.token(t)
	require.Equal(t, http.StatusCreated, b.enroll(t, token, "V-1").Code)

	var limited bool
	for range 10 {
		if rec := b.cast(t, "V-1", "Alice", "0.1", "0.1"); rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited)

	// Another voter at the same booth is unaffected.
	rec := b.cast(t, "V-2", "Alice", "0.1", "0.1")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// sealedUnderOldKey behaves like a store whose templates were sealed under a
// master key the booth no longer holds.
type sealedUnderOldKey struct{ store.Store }

func (s sealedUnderOldKey) Voters() store.Voters { return unreadableVoters{s.Store.Voters()} }

type unreadableVoters struct{ store.Voters }

func (unreadableVoters) GetVoter(_ context.Context, id string) (domain.Voter, error) {
	return domain.Voter{}, fmt.Errorf("open face template for %s: %w", id, store.ErrTemplateUnreadable)
}

func TestUnreadableTemplatesAreUnavailable(t *testing.T) {
	b := newTestBoothWithStore(t, sealedUnderOldKey{memory.NewStore()})

	rec := b.cast(t, "V-1", "Alice", "0.9", "0.9")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	e := decodeError(t, rec)
	require.Equal(t, boothsdk.ErrorCodeUnavailable, e.Error)
	require.Empty(t, e.Outcome)

	req := httptest.NewRequest(http.MethodGet, "/v1/voters/V-1", nil)
	req.Header.Set("Authorization", "Bearer "+b.token(t))
	rec = b.do(req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, boothsdk.ErrorCodeUnavailable, decodeError(t, rec).Error)
}
