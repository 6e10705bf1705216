package domain

import "time"

// Modality names one biometric channel captured at the booth.
type Modality string

const (
	ModalityFace Modality = "face"
	ModalityEye  Modality = "eye"
)

// Modalities lists every modality a voter must enroll and present.
var Modalities = []Modality{ModalityFace, ModalityEye}

// Template is an enrolled reference sample. Its encoding is owned by the
// capture side; the core only hands it to the similarity oracle.
type Template []byte

// VoterStatus is monotonic: eligible -> voted, never back.
type VoterStatus string

const (
	StatusEligible VoterStatus = "eligible"
	StatusVoted    VoterStatus = "voted"
)

type Voter struct {
	ID         string
	Templates  map[Modality]Template
	Status     VoterStatus
	EnrolledAt time.Time
	VotedAt    *time.Time // nil while eligible
}

// HasVoted reports whether the voter has already been settled.
func (v Voter) HasVoted() bool { return v.Status == StatusVoted }

// Template returns the enrolled template for m, or nil.
func (v Voter) Template(m Modality) Template {
	if v.Templates == nil {
		return nil
	}
	return v.Templates[m]
}
