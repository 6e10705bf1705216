package memory

import (
	"context"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
)

// votersRepo locks the store per call unless it runs inside a txStore,
// which already holds the mutex.
type votersRepo struct {
	s    *Store
	tx   *txStore
	lock bool
}

func (r *votersRepo) enter() func() {
	if !r.lock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *votersRepo) CreateVoter(ctx context.Context, v domain.Voter) error {
	defer r.enter()()

	if _, ok := r.s.votersByID[v.ID]; ok {
		return store.ErrAlreadyExists
	}
	if v.Status == "" {
		v.Status = domain.StatusEligible
	}
	r.s.votersByID[v.ID] = cloneVoter(v)

	if r.tx != nil {
		id := v.ID
		r.tx.onRollback(func() { delete(r.s.votersByID, id) })
	}
	return nil
}

func (r *votersRepo) GetVoter(ctx context.Context, id string) (domain.Voter, error) {
	defer r.enter()()

	v, ok := r.s.votersByID[id]
	if !ok {
		return domain.Voter{}, store.ErrNotFound
	}
	return cloneVoter(v), nil
}

func (r *votersRepo) MarkVoted(ctx context.Context, id string, at time.Time) error {
	defer r.enter()()

	v, ok := r.s.votersByID[id]
	if !ok {
		return store.ErrNotFound
	}
	if v.Status != domain.StatusEligible {
		return store.ErrAlreadyVoted
	}

	prev := v
	at = at.UTC()
	v.Status = domain.StatusVoted
	v.VotedAt = &at
	r.s.votersByID[id] = v

	if r.tx != nil {
		r.tx.onRollback(func() { r.s.votersByID[id] = prev })
	}
	return nil
}

func (r *votersRepo) CountByStatus(ctx context.Context) (map[domain.VoterStatus]int, error) {
	defer r.enter()()

	out := map[domain.VoterStatus]int{
		domain.StatusEligible: 0,
		domain.StatusVoted:    0,
	}
	for _, v := range r.s.votersByID {
		out[v.Status]++
	}
	return out, nil
}
