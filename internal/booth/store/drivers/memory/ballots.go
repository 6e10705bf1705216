package memory

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/idx"
)

type ballotsRepo struct {
	s    *Store
	tx   *txStore
	lock bool
}

func (r *ballotsRepo) enter() func() {
	if !r.lock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

// CastBallot is insert-if-absent keyed by voter id.
func (r *ballotsRepo) CastBallot(ctx context.Context, b domain.Ballot) error {
	if _, err := idx.Parse(b.ID); err != nil {
		return fmt.Errorf("ballot %q: %w", b.ID, err)
	}
	defer r.enter()()

	if _, ok := r.s.votersByID[b.VoterID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := r.s.ballotByVoter[b.VoterID]; ok {
		return store.ErrDuplicateVote
	}
	b.CastAt = b.CastAt.UTC()
	r.s.ballotByVoter[b.VoterID] = b

	if r.tx != nil {
		voterID := b.VoterID
		r.tx.onRollback(func() { delete(r.s.ballotByVoter, voterID) })
	}
	return nil
}

func (r *ballotsRepo) GetBallotByVoter(ctx context.Context, voterID string) (domain.Ballot, error) {
	defer r.enter()()

	b, ok := r.s.ballotByVoter[voterID]
	if !ok {
		return domain.Ballot{}, store.ErrNotFound
	}
	return b, nil
}

func (r *ballotsRepo) Tally(ctx context.Context) (domain.Tally, error) {
	defer r.enter()()

	tally := domain.Tally{}
	for _, b := range r.s.ballotByVoter {
		tally[b.Candidate]++
	}
	return tally, nil
}

func (r *ballotsRepo) Count(ctx context.Context) (int, error) {
	defer r.enter()()
	return len(r.s.ballotByVoter), nil
}
