package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/CRM-api/internal/application/crm"
)

var _ crm.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (read committed).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos repositorios atados al Querier dado (pool o tx).
func NewRepos(q Querier) crm.Repos {
	return crm.Repos{
		Contacts:     NewContactRepository(q),
		Quotes:       NewQuoteRepository(q),
		Archives:     NewArchivedQuoteRepository(q),
		Interactions: NewInteractionRepository(q),
		Emails:       NewEmailTrackingRepository(q),
	}
}

// RunCRM inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunCRM(ctx context.Context, fn func(repos crm.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
