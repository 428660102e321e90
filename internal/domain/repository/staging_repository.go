package repository

import (
	"context"

	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
)

// StagingRepository define el puerto de persistencia para cabeceras y líneas en staging.
// Las lecturas devuelven (nil, nil) cuando no hay coincidencia.
type StagingRepository interface {
	// InsertHeader crea la cabecera y devuelve el staging_id asignado por la secuencia.
	InsertHeader(ctx context.Context, header *entity.InvoiceHeader) (int64, error)
	// InsertLine crea una línea para una cabecera existente. Si la cabecera no existe
	// el store rechaza la fila (domain.ErrOrphanLine).
	InsertLine(ctx context.Context, stagingID int64, line *entity.InvoiceLine) (int64, error)
	GetStatus(ctx context.Context, stagingID int64) (*entity.StagingStatus, error)
	// Search busca por invoice_num; sin orgID busca en todas las unidades operativas.
	Search(ctx context.Context, invoiceNum string, orgID *int64) (*entity.StagedInvoice, error)
}

// StagingFlagRepository escrituras de process_flag. Sólo las usa el motor de ciclo de vida,
// dentro de una unidad de trabajo abierta por el TxRunner.
type StagingFlagRepository interface {
	// LockHeader lee el estado actual bloqueando la fila hasta el fin de la transacción.
	LockHeader(ctx context.Context, stagingID int64) (*entity.StagingStatus, error)
	UpdateHeaderFlag(ctx context.Context, stagingID int64, flag entity.ProcessFlag, errorMessage *string) error
	// UpdateLinesFlag devuelve cuántas líneas se actualizaron.
	UpdateLinesFlag(ctx context.Context, stagingID int64, flag entity.ProcessFlag, errorMessage *string) (int64, error)
}
