package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrAlreadyVoted  = errors.New("store: voter already voted")
	ErrDuplicateVote = errors.New("store: ballot already cast for voter")

	// ErrTemplateUnreadable means a stored template exists but cannot be
	// opened, typically because the master key changed.
	ErrTemplateUnreadable = errors.New("store: enrolled template unreadable")
)

// Store is the root data access interface implemented by the sqlite and
// memory drivers. Repositories hang off it so a Tx exposes the same surface
// and nobody opens a transaction inside a transaction.
type Store interface {
	Voters() Voters
	Ballots() Ballots

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Voters interface {
	// CreateVoter inserts a new eligible voter. Create-only: an existing id
	// yields ErrAlreadyExists and the stored templates are left untouched.
	CreateVoter(ctx context.Context, v domain.Voter) error

	GetVoter(ctx context.Context, id string) (domain.Voter, error)

	// MarkVoted flips eligible -> voted as a single compare-and-set.
	// ErrAlreadyVoted if the voter is already settled, ErrNotFound if absent.
	MarkVoted(ctx context.Context, id string, at time.Time) error

	// CountByStatus returns the number of voters per status.
	CountByStatus(ctx context.Context) (map[domain.VoterStatus]int, error)
}

type Ballots interface {
	// CastBallot inserts b unless a ballot for b.VoterID exists, in which
	// case it returns ErrDuplicateVote.
	CastBallot(ctx context.Context, b domain.Ballot) error

	GetBallotByVoter(ctx context.Context, voterID string) (domain.Ballot, error)

	// Tally counts ballots per candidate.
	Tally(ctx context.Context) (domain.Tally, error)

	Count(ctx context.Context) (int, error)
}
