package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/cryptox"
)

type votersRepo struct {
	db     dbtx
	sealer *cryptox.Sealer
}

// templateAAD binds a sealed template to its owner and modality so rows
// cannot be swapped between voters.
func templateAAD(voterID string, m domain.Modality) []byte {
	return []byte(voterID + "/" + string(m))
}

func (r *votersRepo) CreateVoter(ctx context.Context, v domain.Voter) error {
	status := v.Status
	if status == "" {
		status = domain.StatusEligible
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO voters (id, status, enrolled_at, voted_at) VALUES (?, ?, ?, ?)`,
		v.ID, string(status), v.EnrolledAt.UTC(), nullTime(v.VotedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	for m, tpl := range v.Templates {
		sealed, err := r.sealer.Seal(tpl, templateAAD(v.ID, m))
		if err != nil {
			return fmt.Errorf("seal %s template: %w", m, err)
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO voter_templates (voter_id, modality, sealed) VALUES (?, ?, ?)`,
			v.ID, string(m), sealed,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *votersRepo) GetVoter(ctx context.Context, id string) (domain.Voter, error) {
	var (
		v       domain.Voter
		status  string
		votedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, status, enrolled_at, voted_at FROM voters WHERE id = ?`, id,
	).Scan(&v.ID, &status, &v.EnrolledAt, &votedAt)
	if err != nil {
		return domain.Voter{}, mapNotFound(err)
	}
	v.Status = domain.VoterStatus(status)
	if votedAt.Valid {
		t := votedAt.Time
		v.VotedAt = &t
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT modality, sealed FROM voter_templates WHERE voter_id = ?`, id)
	if err != nil {
		return domain.Voter{}, err
	}
	defer rows.Close()

	v.Templates = make(map[domain.Modality]domain.Template, len(domain.Modalities))
	for rows.Next() {
		var (
			modality string
			sealed   []byte
		)
		if err := rows.Scan(&modality, &sealed); err != nil {
			return domain.Voter{}, err
		}
		m := domain.Modality(modality)
		tpl, err := r.sealer.Open(sealed, templateAAD(id, m))
		if err != nil {
			return domain.Voter{}, fmt.Errorf("open %s template for %s: %w: %w", m, id, store.ErrTemplateUnreadable, err)
		}
		v.Templates[m] = tpl
	}
	return v, rows.Err()
}

// MarkVoted is a compare-and-set on status. When no row changes a follow-up
// read tells "already voted" apart from "unknown voter".
func (r *votersRepo) MarkVoted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE voters SET status = 'voted', voted_at = ? WHERE id = ? AND status = 'eligible'`,
		at.UTC(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var status string
	if err := r.db.QueryRowContext(ctx, `SELECT status FROM voters WHERE id = ?`, id).Scan(&status); err != nil {
		return mapNotFound(err)
	}
	return store.ErrAlreadyVoted
}

func (r *votersRepo) CountByStatus(ctx context.Context) (map[domain.VoterStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM voters GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.VoterStatus]int{
		domain.StatusEligible: 0,
		domain.StatusVoted:    0,
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.VoterStatus(status)] = n
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
