package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/lux-ventas/internal/application/pipeline"
)

var _ pipeline.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPipeline inicia una transacción, ejecuta fn con los repositorios del embudo atados
// a la tx y hace Commit o Rollback.
func (r *TxRunner) RunPipeline(ctx context.Context, fn func(r pipeline.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := pipeline.Repos{
		Businesses:    NewBusinessRepository(tx),
		Visits:        NewVisitRepository(tx),
		Opportunities: NewOpportunityRepository(tx),
		Sales:         NewSaleRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
