package domain

// Outcome is the terminal state of a single cast-ballot attempt.
type Outcome string

const (
	OutcomeCommitted     Outcome = "committed"
	OutcomeRejected      Outcome = "rejected"
	OutcomeConflict      Outcome = "conflict"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeInvalidSample Outcome = "invalid_sample"
)

// Receipt is what the orchestrator hands back for every attempt, successful
// or not. Attempt is nil when verification never ran; Ballot is only set on
// OutcomeCommitted. Outcome is empty when the request was invalid or
// abandoned before reaching a terminal state; nothing was written.
type Receipt struct {
	VoterID string
	Outcome Outcome
	Attempt *VerificationAttempt
	Ballot  *Ballot
}
