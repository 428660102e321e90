package staging

import (
	"context"

	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
)

// StagingTxRunner ejecuta fn dentro de una transacción, con el repositorio de flags atado a ella.
// Commit si fn devuelve nil; rollback en cualquier otro caso.
type StagingTxRunner interface {
	RunStaging(ctx context.Context, fn func(flags repository.StagingFlagRepository) error) error
}

// ImportProcedure capacidad opaca validate → transfer → import del ERP.
// Se invoca una vez por llamada; su idempotencia no está verificada, así que nunca se reintenta.
type ImportProcedure interface {
	Invoke(ctx context.Context, scope entity.ProcessScope) (*entity.ProcedureOutcome, error)
}
