package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // ejecución correcta (incluye warning del procedimiento)
	ExitFailure      = 1 // rechazo de negocio, error del procedimiento o carga parcial
	ExitCommandError = 2 // flags inválidos, configuración o store inaccesible
)

// ExitError error con un código de salida concreto.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter salida JSON o texto para los comandos.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse formato estándar de la salida JSON.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" | "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError detalle de error en la salida JSON.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success escribe data como JSON, o delega en text para la salida legible.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Error escribe el error en el formato configurado.
func (f *OutputFormatter) Error(code, message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// VerboseLog sólo con --verbose; va a ErrWriter para no romper la salida JSON.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Fail informa err con el código de la taxonomía de dominio y devuelve el ExitError
// correspondiente.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	message := err.Error()
	var ite *domain.IllegalTransitionError
	if errors.As(err, &ite) {
		message = ite.Reason
	}
	_ = f.Error(code, message)
	return WrapExitError(exit, code, err)
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrIllegalTransition):
		return "ILLEGAL_TRANSITION", ExitFailure
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND", ExitFailure
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION", ExitFailure
	case errors.Is(err, domain.ErrExternalProcedure):
		return "PROCEDURE_ERROR", ExitFailure
	case errors.Is(err, domain.ErrPersistence):
		return "PERSISTENCE", ExitCommandError
	default:
		return "INTERNAL", ExitCommandError
	}
}
