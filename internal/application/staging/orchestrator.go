package staging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/lifecycle"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

// Classification clasificación del código de retorno del procedimiento.
type Classification string

const (
	ResultSuccess Classification = "success"
	ResultWarning Classification = "warning"
	ResultError   Classification = "error"
)

// defaultProcessMessage cuando el procedimiento no devuelve diagnóstico.
const defaultProcessMessage = "Completed"

// Classify 0 → success, 1 → warning, 2 o cualquier otro valor → error.
func Classify(returnCode string) Classification {
	switch returnCode {
	case "0":
		return ResultSuccess
	case "1":
		return ResultWarning
	default:
		return ResultError
	}
}

// ProcessResult lo que reportó el procedimiento, sin reinterpretar éxitos parciales.
type ProcessResult struct {
	RunID      string
	Scope      entity.ProcessScope
	Result     Classification
	ReturnCode string
	TrackingID *int64
	Message    string
}

// Err devuelve *domain.ExternalProcedureError cuando el procedimiento reportó error.
func (r *ProcessResult) Err() error {
	if r.Result != ResultError {
		return nil
	}
	return &domain.ExternalProcedureError{ReturnCode: r.ReturnCode, Message: r.Message}
}

// Orchestrator invoca validate → transfer → import para un alcance. Una sola unidad de trabajo
// por llamada: no descompone, no paraleliza, no reintenta y no consulta hasta completar.
type Orchestrator struct {
	procedure ImportProcedure
	repo      repository.StagingRepository
	engine    *lifecycle.Engine
	log       *logger.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(procedure ImportProcedure, repo repository.StagingRepository, engine *lifecycle.Engine, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		procedure: procedure,
		repo:      repo,
		engine:    engine,
		log:       log.Named("orchestrator"),
	}
}

// Process ejecuta el procedimiento para el alcance dado. Con staging_id el motor de ciclo de
// vida valida antes el estado de esa factura; con batch u org el procedimiento es la única
// autoridad sobre las filas. Un error Go sólo indica que la invocación no pudo completarse;
// warning/error del procedimiento viajan en ProcessResult.
func (o *Orchestrator) Process(ctx context.Context, scope entity.ProcessScope) (*ProcessResult, error) {
	scope = scope.Normalize()

	if scope.Kind() == entity.ScopeInvoice {
		st, err := o.repo.GetStatus(ctx, *scope.StagingID)
		if err != nil {
			return nil, err
		}
		if st == nil {
			return nil, domain.ErrNotFound
		}
		if st.OrgID != scope.OrgID {
			return nil, domain.NewValidationError("staging_id", "no pertenece a la unidad operativa indicada")
		}
		if err := o.engine.CheckProcess(st.StagingID, st.ProcessFlag); err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	ev := o.log.Info().Str("run_id", runID).Str("scope", string(scope.Kind())).Int64("org_id", scope.OrgID)
	if scope.BatchID != nil {
		ev = ev.Int64("batch_id", *scope.BatchID)
	}
	if scope.StagingID != nil {
		ev = ev.Int64("staging_id", *scope.StagingID)
	}
	ev.Msg("invocando procedimiento de importación")

	started := time.Now()
	outcome, err := o.procedure.Invoke(ctx, scope)
	if err != nil {
		o.log.Error().Err(err).Str("run_id", runID).Dur("elapsed", time.Since(started)).Msg("procedimiento de importación no completó")
		return nil, err
	}

	res := &ProcessResult{
		RunID:      runID,
		Scope:      scope,
		Result:     Classify(outcome.ReturnCode),
		ReturnCode: outcome.ReturnCode,
		TrackingID: outcome.TrackingID,
		Message:    defaultProcessMessage,
	}
	if outcome.Message != nil && *outcome.Message != "" {
		res.Message = *outcome.Message
	}

	level := zerolog.InfoLevel
	switch res.Result {
	case ResultWarning:
		level = zerolog.WarnLevel
	case ResultError:
		level = zerolog.ErrorLevel
	}
	o.log.WithLevel(level).
		Str("run_id", runID).
		Str("return_code", res.ReturnCode).
		Str("result", string(res.Result)).
		Dur("elapsed", time.Since(started)).
		Err(res.Err()).
		Msg(res.Message)

	return res, nil
}
