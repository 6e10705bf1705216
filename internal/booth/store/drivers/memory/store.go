// Package memory is an in-process store driver for tests and kiosk demos.
// State is lost on exit.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
)

var errTxDone = errors.New("memory: transaction has already been committed or rolled back")

type Store struct {
	mu sync.Mutex

	votersByID    map[string]domain.Voter
	ballotByVoter map[string]domain.Ballot
}

func NewStore() *Store {
	return &Store{
		votersByID:    make(map[string]domain.Voter),
		ballotByVoter: make(map[string]domain.Ballot),
	}
}

func (s *Store) ApplyMigrations() error         { return nil }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Voters() store.Voters           { return &votersRepo{s: s, lock: true} }
func (s *Store) Ballots() store.Ballots         { return &ballotsRepo{s: s, lock: true} }

// Tx holds the store mutex until Commit or Rollback, so transactions are
// fully serialized. Writes apply in place and are undone on rollback.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &txStore{s: s}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type txStore struct {
	s    *Store
	undo []func()
	done bool
}

func (t *txStore) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.undo = nil
	t.s.mu.Unlock()
	return nil
}

func (t *txStore) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.s.mu.Unlock()
	return nil
}

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errTxDone }
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errTxDone
}

func (t *txStore) Voters() store.Voters   { return &votersRepo{s: t.s, tx: t} }
func (t *txStore) Ballots() store.Ballots { return &ballotsRepo{s: t.s, tx: t} }

func (t *txStore) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

func cloneVoter(v domain.Voter) domain.Voter {
	out := v
	if v.Templates != nil {
		out.Templates = make(map[domain.Modality]domain.Template, len(v.Templates))
		for m, tpl := range v.Templates {
			out.Templates[m] = append(domain.Template(nil), tpl...)
		}
	}
	if v.VotedAt != nil {
		at := *v.VotedAt
		out.VotedAt = &at
	}
	return out
}
