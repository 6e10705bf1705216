/*
Package boothsdk is a client for the biovote booth service.

Client covers the public endpoints: health checks, the official token
exchange and ballot casting. Authenticating as an election official returns a
Session for the protected endpoints:

	client := boothsdk.NewClient("http://booth.local:8080")

	session, err := client.Authenticate(ctx, totpCode)
	if err != nil {
		return err
	}

	voter, err := session.EnrollVoter(ctx, boothsdk.EnrollRequest{
		VoterID: "V-1001",
		Face:    faceJPEG,
		Eye:     eyeJPEG,
	})

	receipt, err := client.CastBallot(ctx, boothsdk.CastBallotRequest{
		VoterID:   "V-1001",
		Candidate: "Alice",
		Face:      freshFace,
		Eye:       freshEye,
	})

	results, err := session.GetResults(ctx)

# Errors

Non-2xx responses come back as *APIError. Ballot failures also carry the
outcome (rejected, conflict, not_found, invalid_sample):

	var apiErr *boothsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Outcome == boothsdk.OutcomeConflict {
		// voter already voted
	}

Sessions do not refresh; official tokens are short-lived and a new TOTP code
is needed once they expire.
*/
package boothsdk
