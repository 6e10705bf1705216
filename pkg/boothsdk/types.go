package boothsdk

import "time"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`

	// Outcome is set by POST /v1/ballots.
	Outcome string `json:"outcome,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database  string `json:"database"`
	Signer    string `json:"signer"`
	Integrity string `json:"integrity,omitempty"`
}

// TokenResponse is returned by POST /v1/officials/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// VoterResponse describes a voter without their templates.
type VoterResponse struct {
	VoterID    string     `json:"voter_id"`
	Status     string     `json:"status"`
	EnrolledAt time.Time  `json:"enrolled_at"`
	VotedAt    *time.Time `json:"voted_at,omitempty"`
}

// ReceiptResponse is returned by POST /v1/ballots when the ballot commits.
type ReceiptResponse struct {
	VoterID   string    `json:"voter_id"`
	Outcome   string    `json:"outcome"`
	BallotID  string    `json:"ballot_id"`
	Candidate string    `json:"candidate"`
	CastAt    time.Time `json:"cast_at"`
	FaceScore float64   `json:"face_score"`
	EyeScore  float64   `json:"eye_score"`
}

type CandidateResult struct {
	Candidate string `json:"candidate"`
	Votes     int    `json:"votes"`
}

// ResultsResponse lists candidates by votes descending, then by name.
type ResultsResponse struct {
	Results []CandidateResult `json:"results"`
	Total   int               `json:"total"`
}

type EnrollRequest struct {
	VoterID string
	Face    []byte
	Eye     []byte
}

type CastBallotRequest struct {
	VoterID   string
	Candidate string
	Face      []byte
	Eye       []byte
}
