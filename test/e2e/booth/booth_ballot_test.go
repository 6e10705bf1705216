package booth_test

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/stretchr/testify/require"
)

// TestEnrollCastTally walks the whole flow: an official enrolls voters, the
// voters cast once each, and the official reads the tally.
func TestEnrollCastTally(t *testing.T) {
	baseURL, cleanup := setupBoothContainer(t)
	defer cleanup()

	client := boothsdk.NewClient(baseURL)
	session := officialLogin(t, client)

	enrollVoter(t, session, "V-1001")
	enrollVoter(t, session, "V-1002")

	sample := gradientPNG(t)
	receipt, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
		VoterID:   "V-1001",
		Candidate: "Alice",
		Face:      sample,
		Eye:       sample,
	})
	require.NoError(t, err)
	require.Equal(t, boothsdk.OutcomeCommitted, receipt.Outcome)
	require.NotEmpty(t, receipt.BallotID)
	require.InDelta(t, 1.0, receipt.FaceScore, 1e-9)

	_, err = client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
		VoterID:   "V-1002",
		Candidate: "Bob",
		Face:      sample,
		Eye:       sample,
	})
	require.NoError(t, err)

	voter, err := session.GetVoter(t.Context(), "V-1001")
	require.NoError(t, err)
	require.Equal(t, "voted", voter.Status)
	require.NotNil(t, voter.VotedAt)

	results, err := session.GetResults(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, results.Total)
	require.Equal(t, []boothsdk.CandidateResult{
		{Candidate: "Alice", Votes: 1},
		{Candidate: "Bob", Votes: 1},
	}, results.Results)
}

func TestEnrollIsCreateOnly(t *testing.T) {
	baseURL, cleanup := setupBoothContainer(t)
	defer cleanup()

	client := boothsdk.NewClient(baseURL)
	session := officialLogin(t, client)

	enrollVoter(t, session, "V-2001")

	_, err := session.EnrollVoter(t.Context(), boothsdk.EnrollRequest{
		VoterID: "V-2001",
		Face:    twoTonePNG(t),
		Eye:     twoTonePNG(t),
	})
	var apiErr *boothsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, boothsdk.ErrorCodeAlreadyEnrolled, apiErr.Code)

	// The original templates still verify.
	sample := gradientPNG(t)
	_, err = client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
		VoterID: "V-2001", Candidate: "Alice", Face: sample, Eye: sample,
	})
	require.NoError(t, err)
}

func TestCastBallotRefusals(t *testing.T) {
	baseURL, cleanup := setupBoothContainer(t)
	defer cleanup()

	client := boothsdk.NewClient(baseURL)
	session := officialLogin(t, client)
	enrollVoter(t, session, "V-3001")

	match := gradientPNG(t)
	mismatch := twoTonePNG(t)

	t.Run("mismatched eye is rejected", func(t *testing.T) {
		_, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
			VoterID: "V-3001", Candidate: "Alice", Face: match, Eye: mismatch,
		})
		requireOutcome(t, err, http.StatusForbidden, boothsdk.OutcomeRejected)
	})

	t.Run("missing sample is rejected", func(t *testing.T) {
		_, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
			VoterID: "V-3001", Candidate: "Alice", Face: match,
		})
		requireOutcome(t, err, http.StatusForbidden, boothsdk.OutcomeRejected)
	})

	t.Run("undecodable sample", func(t *testing.T) {
		_, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
			VoterID: "V-3001", Candidate: "Alice", Face: []byte("not an image"), Eye: match,
		})
		requireOutcome(t, err, http.StatusBadRequest, boothsdk.OutcomeInvalidSample)
	})

	t.Run("unknown voter", func(t *testing.T) {
		_, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
			VoterID: "V-9999", Candidate: "Alice", Face: match, Eye: match,
		})
		requireOutcome(t, err, http.StatusNotFound, boothsdk.OutcomeNotFound)
	})

	t.Run("refusals did not consume the vote", func(t *testing.T) {
		voter, err := session.GetVoter(t.Context(), "V-3001")
		require.NoError(t, err)
		require.Equal(t, "eligible", voter.Status)

		results, err := session.GetResults(t.Context())
		require.NoError(t, err)
		require.Zero(t, results.Total)
	})
}

// TestConcurrentCastsCommitOnce fires parallel casts for one voter; exactly
// one commits and the rest conflict.
func TestConcurrentCastsCommitOnce(t *testing.T) {
	baseURL, cleanup := setupBoothContainer(t)
	defer cleanup()

	client := boothsdk.NewClient(baseURL)
	session := officialLogin(t, client)
	enrollVoter(t, session, "V-4001")

	sample := gradientPNG(t)
	const attempts = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		committed int
		conflicts int
	)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
				VoterID:   "V-4001",
				Candidate: fmt.Sprintf("Candidate-%d", i),
				Face:      sample,
				Eye:       sample,
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				committed++
				return
			}
			var apiErr *boothsdk.APIError
			if errors.As(err, &apiErr) && apiErr.Outcome == boothsdk.OutcomeConflict {
				conflicts++
				return
			}
			t.Errorf("unexpected cast error: %v", err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, committed)
	require.Equal(t, attempts-1, conflicts)

	results, err := session.GetResults(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, results.Total)
}

func TestOfficialEndpointsRequireToken(t *testing.T) {
	baseURL, cleanup := setupBoothContainer(t)
	defer cleanup()

	client := boothsdk.NewClient(baseURL)
	anonymous := client.NewSession("", "", 0)

	_, err := anonymous.GetResults(t.Context())
	var apiErr *boothsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = client.Authenticate(t.Context(), "abcdef")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, boothsdk.ErrorCodeInvalidCode, apiErr.Code)
}
