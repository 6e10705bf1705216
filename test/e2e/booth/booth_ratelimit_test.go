package booth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/biovote/pkg/boothsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitCastPerVoter verifies repeated attempts for one voter are
// throttled (5 per minute) while other voters at the same booth are not.
func TestRateLimitCastPerVoter(t *testing.T) {
	baseURL, cleanup := setupBoothContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := boothsdk.NewClient(baseURL)
	session := officialLogin(t, client)
	enrollVoter(t, session, "V-5001")
	enrollVoter(t, session, "V-5002")

	mismatch := twoTonePNG(t)
	for i := range 6 {
		_, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
			VoterID: "V-5001", Candidate: "Alice", Face: mismatch, Eye: mismatch,
		})
		var apiErr *boothsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		if i < 5 {
			require.Equal(t, http.StatusForbidden, apiErr.StatusCode, "attempt %d", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		}
	}

	sample := gradientPNG(t)
	receipt, err := client.CastBallot(t.Context(), boothsdk.CastBallotRequest{
		VoterID: "V-5002", Candidate: "Alice", Face: sample, Eye: sample,
	})
	require.NoError(t, err)
	require.Equal(t, boothsdk.OutcomeCommitted, receipt.Outcome)
}
