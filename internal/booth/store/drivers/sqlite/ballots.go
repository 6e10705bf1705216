package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/idx"
)

type ballotsRepo struct {
	db dbtx
}

// CastBallot relies on the UNIQUE(voter_id) constraint; the engine is the
// arbiter when two commits race.
func (r *ballotsRepo) CastBallot(ctx context.Context, b domain.Ballot) error {
	if _, err := idx.Parse(b.ID); err != nil {
		return fmt.Errorf("ballot %q: %w", b.ID, err)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ballots (id, voter_id, candidate, cast_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.VoterID, b.Candidate, b.CastAt.UTC(),
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return store.ErrDuplicateVote
	case isForeignKeyViolation(err):
		return store.ErrNotFound
	default:
		return err
	}
}

func (r *ballotsRepo) GetBallotByVoter(ctx context.Context, voterID string) (domain.Ballot, error) {
	var b domain.Ballot
	err := r.db.QueryRowContext(ctx,
		`SELECT id, voter_id, candidate, cast_at FROM ballots WHERE voter_id = ?`, voterID,
	).Scan(&b.ID, &b.VoterID, &b.Candidate, &b.CastAt)
	if err != nil {
		return domain.Ballot{}, mapNotFound(err)
	}
	return b, nil
}

func (r *ballotsRepo) Tally(ctx context.Context) (domain.Tally, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT candidate, COUNT(*) FROM ballots GROUP BY candidate`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tally := domain.Tally{}
	for rows.Next() {
		var (
			candidate string
			n         int
		)
		if err := rows.Scan(&candidate, &n); err != nil {
			return nil, err
		}
		tally[candidate] = n
	}
	return tally, rows.Err()
}

func (r *ballotsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballots`).Scan(&n)
	return n, err
}
