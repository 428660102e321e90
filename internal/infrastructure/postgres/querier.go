package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo común entre *pgxpool.Pool, pgx.Tx y pgxmock; los repositorios aceptan
// cualquiera de ellos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner fuente de transacciones (pool real, LazyPool o pgxmock).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
