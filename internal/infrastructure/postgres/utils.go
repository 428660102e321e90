package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := sqlState(err); code != "" {
		return code == sqlStateUniqueViolation
	}
	return strings.Contains(err.Error(), sqlStateUniqueViolation)
}

// isForeignKeyViolation 23503: la línea apunta a una cabecera que no existe.
func isForeignKeyViolation(err error) bool {
	return sqlState(err) == sqlStateForeignKeyViolation
}

// persistenceErr envuelve cualquier fallo del store; la causa sigue accesible con errors.As.
func persistenceErr(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		err = fmt.Errorf("%w: %w", domain.ErrOrphanLine, err)
	case isUniqueViolation(err):
		err = fmt.Errorf("registro duplicado: %w", err)
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
