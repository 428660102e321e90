package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
)

// Ensure TxRunner implements staging.StagingTxRunner.
var _ staging.StagingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool (o LazyPool / pgxmock).
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// RunStaging inicia una transacción, ejecuta fn con el repositorio de flags atado a la tx y
// hace Commit o Rollback. Los FOR UPDATE tomados por fn se liberan al terminar.
func (r *TxRunner) RunStaging(ctx context.Context, fn func(flags repository.StagingFlagRepository) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return persistenceErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStagingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return persistenceErr("commit transaction", fmt.Errorf("staging flags: %w", err))
	}
	return nil
}
