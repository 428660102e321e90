// Package lifecycle implementa la máquina de estados de process_flag para facturas en staging.
//
//	N ──validate ok──▶ V ──transfer+import ok──▶ (P) ──▶ I
//	N,V ──validate fail──▶ E
//	N,E ──cancel──▶ X
//
// X e I son terminales. Las transiciones de validación e importación las escribe el
// procedimiento externo directamente en el store; el motor sólo ejecuta las que autoriza
// el servicio (cancel) y no re-verifica escrituras externas.
package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
)

// Event disparador de una transición.
type Event string

const (
	EventValidateSucceeded Event = "validate_succeeded"
	EventValidateFailed    Event = "validate_failed"
	EventImportSucceeded   Event = "import_succeeded"
	EventCancel            Event = "cancel"
)

// Actor quién puede disparar un evento.
type Actor string

const (
	ActorExternalProcedure Actor = "external_procedure"
	ActorService           Actor = "service"
)

// CancelMessage error_message que acompaña a toda cancelación.
const CancelMessage = "Cancelled by user"

type rule struct {
	from   []entity.ProcessFlag
	to     entity.ProcessFlag
	actor  Actor
	verb   string
	passed string
}

var rules = map[Event]rule{
	EventValidateSucceeded: {
		from: []entity.ProcessFlag{entity.FlagNew}, to: entity.FlagValidated,
		actor: ActorExternalProcedure, verb: "validate", passed: "validated",
	},
	EventValidateFailed: {
		from: []entity.ProcessFlag{entity.FlagNew, entity.FlagValidated}, to: entity.FlagError,
		actor: ActorExternalProcedure, verb: "fail", passed: "failed",
	},
	// P es transitorio; el estado observable de éxito es I.
	EventImportSucceeded: {
		from: []entity.ProcessFlag{entity.FlagValidated}, to: entity.FlagInterfaced,
		actor: ActorExternalProcedure, verb: "import", passed: "imported",
	},
	EventCancel: {
		from: []entity.ProcessFlag{entity.FlagNew, entity.FlagError}, to: entity.FlagCancelled,
		actor: ActorService, verb: "cancel", passed: "cancelled",
	},
}

// processable estados desde los que el procedimiento externo tiene una transición legal.
var processable = []entity.ProcessFlag{entity.FlagNew, entity.FlagValidated}

// Change flag y mensaje a aplicar, en ese orden, a la cabecera y a todas sus líneas.
type Change struct {
	Flag         entity.ProcessFlag
	ErrorMessage *string
}

// Outcome resultado de una transición aplicada por el motor.
type Outcome struct {
	StagingID     int64
	InvoiceNum    string
	From          entity.ProcessFlag
	To            entity.ProcessFlag
	LinesAffected int64
}

// Engine motor sin estado; las reglas son fijas.
type Engine struct{}

// NewEngine construye el motor.
func NewEngine() *Engine {
	return &Engine{}
}

// Initial estado con el que nace toda cabecera y toda línea.
func (e *Engine) Initial() entity.ProcessFlag {
	return entity.FlagNew
}

// IsTerminal indica si el flag ya no admite transiciones.
func IsTerminal(f entity.ProcessFlag) bool {
	return f == entity.FlagCancelled || f == entity.FlagInterfaced
}

// Decide valida una transición sin tocar el store.
// Las transiciones hacia E o X exigen errorMessage no vacío.
func (e *Engine) Decide(stagingID int64, current entity.ProcessFlag, event Event, actor Actor, errorMessage string) (*Change, error) {
	r, ok := rules[event]
	if !ok {
		return nil, fmt.Errorf("%w: evento desconocido %q", domain.ErrInvalidInput, event)
	}
	if r.actor != actor {
		return nil, fmt.Errorf("%w: el evento %s corresponde a %s", domain.ErrForbidden, event, r.actor)
	}
	if IsTerminal(current) || !contains(r.from, current) {
		return nil, reject(stagingID, current, r.verb, r.passed, r.from)
	}

	change := &Change{Flag: r.to}
	if r.to == entity.FlagError || r.to == entity.FlagCancelled {
		if strings.TrimSpace(errorMessage) == "" {
			return nil, domain.NewValidationError("error_message", "requerido al pasar a "+r.to.Label())
		}
		change.ErrorMessage = &errorMessage
	}
	return change, nil
}

// Cancel aplica N|E → X sobre la cabecera y sus líneas. Debe ejecutarse dentro de una
// unidad de trabajo: bloquea la cabecera, decide, actualiza cabecera y luego líneas.
// En rechazo no se escribe nada.
func (e *Engine) Cancel(ctx context.Context, store repository.StagingFlagRepository, stagingID int64) (*Outcome, error) {
	current, err := store.LockHeader(ctx, stagingID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	change, err := e.Decide(stagingID, current.ProcessFlag, EventCancel, ActorService, CancelMessage)
	if err != nil {
		return nil, err
	}

	if err := store.UpdateHeaderFlag(ctx, stagingID, change.Flag, change.ErrorMessage); err != nil {
		return nil, err
	}
	n, err := store.UpdateLinesFlag(ctx, stagingID, change.Flag, change.ErrorMessage)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		StagingID:     stagingID,
		InvoiceNum:    current.InvoiceNum,
		From:          current.ProcessFlag,
		To:            change.Flag,
		LinesAffected: n,
	}, nil
}

// CheckProcess valida que una factura individual pueda entregarse al procedimiento externo.
func (e *Engine) CheckProcess(stagingID int64, current entity.ProcessFlag) error {
	if IsTerminal(current) || !contains(processable, current) {
		return reject(stagingID, current, "process", "processed", processable)
	}
	return nil
}

func reject(stagingID int64, current entity.ProcessFlag, verb, passed string, allowed []entity.ProcessFlag) error {
	labels := make([]string, 0, len(allowed))
	for _, f := range allowed {
		labels = append(labels, f.Label())
	}
	return &domain.IllegalTransitionError{
		StagingID: stagingID,
		Flag:      string(current),
		State:     current.Label(),
		Reason: fmt.Sprintf("Cannot %s invoice with status '%s'. Only %s status can be %s.",
			verb, current.Label(), strings.Join(labels, " or "), passed),
	}
}

func contains(list []entity.ProcessFlag, f entity.ProcessFlag) bool {
	for _, x := range list {
		if x == f {
			return true
		}
	}
	return false
}
