package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrIllegalTransition = errors.New("transición de estado no permitida")
	ErrPersistence       = errors.New("error de persistencia")
	ErrOrphanLine        = errors.New("la línea no tiene cabecera en staging")
	ErrExternalProcedure = errors.New("el procedimiento de importación reportó error")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// ValidationError entrada mal formada o incompleta. Falla del cliente; nunca se reintenta.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para los validadores.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IllegalTransitionError rechazo del motor de ciclo de vida.
// State lleva el nombre legible del estado actual para que el cliente pueda explicar el rechazo.
type IllegalTransitionError struct {
	StagingID int64
	Flag      string
	State     string
	Reason    string
}

func (e *IllegalTransitionError) Error() string {
	return e.Reason
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

// PersistenceError fallo de conectividad o de constraint en el store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap expone tanto ErrPersistence como la causa original (pgconn.PgError, ErrOrphanLine...).
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// ExternalProcedureError el paso validate/transfer/import reportó error.
// Message se expone tal cual lo devolvió el procedimiento.
type ExternalProcedureError struct {
	ReturnCode string
	Message    string
}

func (e *ExternalProcedureError) Error() string {
	return fmt.Sprintf("import procedure returned %s: %s", e.ReturnCode, e.Message)
}

func (e *ExternalProcedureError) Unwrap() error { return ErrExternalProcedure }
