package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/pkg/config"
)

var _ staging.ImportProcedure = (*ImportProcedure)(nil)

// procedureName schema.nombre o nombre; el identificador se interpola en el SQL.
var procedureName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)

// ImportProcedure invoca la función validate → transfer → import del ERP en una conexión
// del pool, con el contexto de sesión (usuario, responsabilidad, aplicación, org) fijado
// mediante set_config local a la transacción.
type ImportProcedure struct {
	db             TxBeginner
	erp            config.ERPConfig
	acquireTimeout time.Duration
}

// NewImportProcedure valida el nombre del procedimiento configurado.
func NewImportProcedure(db TxBeginner, erp config.ERPConfig, acquireTimeout time.Duration) (*ImportProcedure, error) {
	if !procedureName.MatchString(erp.Procedure) {
		return nil, fmt.Errorf("ERP_PROCEDURE inválido: %q", erp.Procedure)
	}
	if acquireTimeout <= 0 {
		acquireTimeout = 30 * time.Second
	}
	return &ImportProcedure{db: db, erp: erp, acquireTimeout: acquireTimeout}, nil
}

// Invoke una sola llamada, sin reintentos. La conexión se devuelve al pool en todos los caminos.
func (p *ImportProcedure) Invoke(ctx context.Context, scope entity.ProcessScope) (*entity.ProcedureOutcome, error) {
	beginCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	tx, err := p.db.Begin(beginCtx)
	cancel()
	if err != nil {
		return nil, persistenceErr("acquire connection for import procedure", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		SELECT set_config('erp.user_id', $1, true),
		       set_config('erp.resp_id', $2, true),
		       set_config('erp.resp_appl_id', $3, true),
		       set_config('erp.org_id', $4, true)`,
		strconv.FormatInt(p.erp.UserID, 10),
		strconv.FormatInt(p.erp.RespID, 10),
		strconv.FormatInt(p.erp.RespApplID, 10),
		strconv.FormatInt(scope.OrgID, 10),
	)
	if err != nil {
		return nil, persistenceErr("initialize erp session", err)
	}

	query := fmt.Sprintf(`SELECT retcode, errbuf, request_id FROM %s($1, $2, $3)`, p.erp.Procedure)
	var (
		out     entity.ProcedureOutcome
		retcode *string
	)
	err = tx.QueryRow(ctx, query, scope.OrgID, scope.BatchID, scope.StagingID).
		Scan(&retcode, &out.Message, &out.TrackingID)
	if err != nil {
		return nil, persistenceErr("invoke import procedure", err)
	}
	// retcode NULL queda vacío y se clasifica como error, sin descartar lo que escribió el procedimiento.
	if retcode != nil {
		out.ReturnCode = *retcode
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, persistenceErr("commit import procedure", err)
	}
	return &out, nil
}
