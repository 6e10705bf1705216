package domain

// Decision is the verifier's verdict on one attempt.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// VerificationAttempt records the scores behind a decision. It is never
// persisted; callers may log it for audit.
type VerificationAttempt struct {
	FaceScore     float64
	EyeScore      float64
	FaceThreshold float64
	EyeThreshold  float64
	Decision      Decision
}

func (a VerificationAttempt) Accepted() bool { return a.Decision == DecisionAccept }
