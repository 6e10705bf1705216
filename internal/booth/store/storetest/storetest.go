// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

// Run exercises a driver against the store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndGetVoter", func(t *testing.T) { testCreateAndGetVoter(t, newStore(t)) })
	t.Run("CreateVoterIsCreateOnly", func(t *testing.T) { testCreateOnly(t, newStore(t)) })
	t.Run("GetUnknownVoter", func(t *testing.T) { testGetUnknown(t, newStore(t)) })
	t.Run("MarkVotedOnce", func(t *testing.T) { testMarkVotedOnce(t, newStore(t)) })
	t.Run("MarkVotedConcurrent", func(t *testing.T) { testMarkVotedConcurrent(t, newStore(t)) })
	t.Run("CastBallotUnique", func(t *testing.T) { testCastBallotUnique(t, newStore(t)) })
	t.Run("CastBallotNeedsULID", func(t *testing.T) { testCastBallotNeedsULID(t, newStore(t)) })
	t.Run("Tally", func(t *testing.T) { testTally(t, newStore(t)) })
	t.Run("WithTxRollsBack", func(t *testing.T) { testWithTxRollsBack(t, newStore(t)) })
	t.Run("WithTxCommits", func(t *testing.T) { testWithTxCommits(t, newStore(t)) })
	t.Run("CountByStatus", func(t *testing.T) { testCountByStatus(t, newStore(t)) })
}

// Voter returns an eligible voter with distinct face and eye templates.
func Voter(id string) domain.Voter {
	return domain.Voter{
		ID: id,
		Templates: map[domain.Modality]domain.Template{
			domain.ModalityFace: domain.Template("face-" + id),
			domain.ModalityEye:  domain.Template("eye-" + id),
		},
		Status:     domain.StatusEligible,
		EnrolledAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Ballot returns a fresh ballot for voterID.
func Ballot(voterID, candidate string) domain.Ballot {
	return domain.Ballot{
		ID:        idx.New().String(),
		VoterID:   voterID,
		Candidate: candidate,
		CastAt:    time.Now().UTC(),
	}
}

func testCreateAndGetVoter(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := Voter("V-1001")
	require.NoError(t, s.Voters().CreateVoter(ctx, want))

	got, err := s.Voters().GetVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, domain.StatusEligible, got.Status)
	require.Nil(t, got.VotedAt)
	require.True(t, want.EnrolledAt.Equal(got.EnrolledAt))
	require.Equal(t, want.Template(domain.ModalityFace), got.Template(domain.ModalityFace))
	require.Equal(t, want.Template(domain.ModalityEye), got.Template(domain.ModalityEye))
}

func testCreateOnly(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := Voter("V-1001")
	require.NoError(t, s.Voters().CreateVoter(ctx, first))

	second := Voter("V-1001")
	second.Templates[domain.ModalityFace] = domain.Template("impostor")
	err := s.Voters().CreateVoter(ctx, second)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Voters().GetVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.Equal(t, first.Template(domain.ModalityFace), got.Template(domain.ModalityFace))
}

func testGetUnknown(t *testing.T, s store.Store) {
	_, err := s.Voters().GetVoter(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Voters().MarkVoted(context.Background(), "ghost", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Ballots().GetBallotByVoter(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testMarkVotedOnce(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Voters().CreateVoter(ctx, Voter("V-1001")))

	require.NoError(t, s.Voters().MarkVoted(ctx, "V-1001", time.Now()))
	require.ErrorIs(t, s.Voters().MarkVoted(ctx, "V-1001", time.Now()), store.ErrAlreadyVoted)

	got, err := s.Voters().GetVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.True(t, got.HasVoted())
	require.NotNil(t, got.VotedAt)
}

func testMarkVotedConcurrent(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Voters().CreateVoter(ctx, Voter("V-1001")))

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		voted   int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Voters().MarkVoted(ctx, "V-1001", time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, store.ErrAlreadyVoted):
				voted++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, success)
	require.Equal(t, n-1, voted)
}

func testCastBallotNeedsULID(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Voters().CreateVoter(ctx, Voter("V-1001")))

	b := Ballot("V-1001", "Alice")
	b.ID = "ballot-1"
	require.ErrorIs(t, s.Ballots().CastBallot(ctx, b), idx.ErrInvalid)

	n, err := s.Ballots().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func testCastBallotUnique(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Voters().CreateVoter(ctx, Voter("V-1001")))

	first := Ballot("V-1001", "Alice")
	require.NoError(t, s.Ballots().CastBallot(ctx, first))
	require.ErrorIs(t, s.Ballots().CastBallot(ctx, Ballot("V-1001", "Bob")), store.ErrDuplicateVote)

	got, err := s.Ballots().GetBallotByVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "Alice", got.Candidate)

	n, err := s.Ballots().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func testTally(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i, c := range []string{"A", "B", "A"} {
		id := fmt.Sprintf("v%d", i+1)
		require.NoError(t, s.Voters().CreateVoter(ctx, Voter(id)))
		require.NoError(t, s.Ballots().CastBallot(ctx, Ballot(id, c)))
	}

	tally, err := s.Ballots().Tally(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Tally{"A": 2, "B": 1}, tally)
	require.Equal(t, 3, tally.Total())
}

func testWithTxRollsBack(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Voters().CreateVoter(ctx, Voter("V-1001")))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Voters().MarkVoted(ctx, "V-1001", time.Now()))
		require.NoError(t, tx.Ballots().CastBallot(ctx, Ballot("V-1001", "A")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Voters().GetVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.False(t, v.HasVoted())

	n, err := s.Ballots().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func testWithTxCommits(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Voters().CreateVoter(ctx, Voter("V-1001")); err != nil {
			return err
		}
		if err := tx.Voters().MarkVoted(ctx, "V-1001", time.Now()); err != nil {
			return err
		}
		return tx.Ballots().CastBallot(ctx, Ballot("V-1001", "A"))
	}))

	v, err := s.Voters().GetVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.True(t, v.HasVoted())

	b, err := s.Ballots().GetBallotByVoter(ctx, "V-1001")
	require.NoError(t, err)
	require.Equal(t, "A", b.Candidate)
}

func testCountByStatus(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, s.Voters().CreateVoter(ctx, Voter(id)))
	}
	require.NoError(t, s.Voters().MarkVoted(ctx, "v2", time.Now()))

	counts, err := s.Voters().CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, counts[domain.StatusEligible])
	require.Equal(t, 1, counts[domain.StatusVoted])
}
