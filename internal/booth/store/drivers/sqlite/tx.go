package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/biovote/internal/booth/store"
	"github.com/aussiebroadwan/biovote/pkg/cryptox"
)

type txStore struct {
	tx     *sql.Tx
	sealer *cryptox.Sealer
}

func newTx(tx *sql.Tx, sealer *cryptox.Sealer) *txStore {
	return &txStore{tx: tx, sealer: sealer}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the outer DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Voters() store.Voters   { return &votersRepo{db: t.tx, sealer: t.sealer} }
func (t *txStore) Ballots() store.Ballots { return &ballotsRepo{db: t.tx} }

// Migrations must be applied before starting a tx.
func (t *txStore) ApplyMigrations() error { return nil }
