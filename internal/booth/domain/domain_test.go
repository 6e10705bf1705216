package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/stretchr/testify/require"
)

func TestTallyRanked(t *testing.T) {
	tally := domain.Tally{"B": 1, "A": 2, "C": 1}

	require.Equal(t, []domain.TallyEntry{
		{Candidate: "A", Count: 2},
		{Candidate: "B", Count: 1},
		{Candidate: "C", Count: 1},
	}, tally.Ranked())
	require.Equal(t, 4, tally.Total())
	require.Empty(t, domain.Tally{}.Ranked())
}

func TestVoterHelpers(t *testing.T) {
	var v domain.Voter
	require.Nil(t, v.Template(domain.ModalityFace))
	require.False(t, v.HasVoted())

	now := time.Now()
	v = domain.Voter{
		ID:        "V-1",
		Templates: map[domain.Modality]domain.Template{domain.ModalityEye: []byte("eye")},
		Status:    domain.StatusVoted,
		VotedAt:   &now,
	}
	require.True(t, v.HasVoted())
	require.Equal(t, domain.Template("eye"), v.Template(domain.ModalityEye))
	require.Nil(t, v.Template(domain.ModalityFace))
}

func TestAttemptAccepted(t *testing.T) {
	require.True(t, domain.VerificationAttempt{Decision: domain.DecisionAccept}.Accepted())
	require.False(t, domain.VerificationAttempt{Decision: domain.DecisionReject}.Accepted())
}
