package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ap-invoice-staging/pkg/config"
)

// ErrPoolClosed el pool ya se cerró en el apagado.
var ErrPoolClosed = errors.New("pool de conexiones cerrado")

var (
	_ Querier    = (*LazyPool)(nil)
	_ TxBeginner = (*LazyPool)(nil)
)

type poolOpener func(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error)

type connAcquirer func(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error)

func acquireFromPool(ctx context.Context, pool *pgxpool.Pool) (*pgxpool.Conn, error) {
	return pool.Acquire(ctx)
}

// LazyPool pool compartido por todo el proceso, creado en el primer uso y cerrado una sola vez.
// Si la primera apertura falla, la siguiente llamada vuelve a intentarlo.
type LazyPool struct {
	cfg         config.DBConfig
	open        poolOpener
	acquireConn connAcquirer

	mu     sync.Mutex
	pool   *pgxpool.Pool
	closed bool
}

// NewLazyPool no abre conexiones; eso ocurre en la primera consulta.
func NewLazyPool(cfg config.DBConfig) *LazyPool {
	return &LazyPool{cfg: cfg, open: NewPool, acquireConn: acquireFromPool}
}

// Get devuelve el pool, creándolo si hace falta. La creación no hereda la cancelación de la
// petición que la dispara, sólo el límite de DB_ACQUIRE_TIMEOUT.
func (p *LazyPool) Get(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}
	if p.pool != nil {
		return p.pool, nil
	}

	openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.acquireTimeout())
	defer cancel()

	pool, err := p.open(openCtx, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("inicializar pool: %w", err)
	}
	p.pool = pool
	return pool, nil
}

func (p *LazyPool) acquireTimeout() time.Duration {
	if p.cfg.AcquireTimeout > 0 {
		return p.cfg.AcquireTimeout
	}
	return 30 * time.Second
}

// acquire toma una conexión esperando como mucho DB_ACQUIRE_TIMEOUT; una vez obtenida la
// consulta corre con el ctx del llamador.
func (p *LazyPool) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	pool, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}
	acquireCtx, cancel := context.WithTimeout(ctx, p.acquireTimeout())
	defer cancel()
	conn, err := p.acquireConn(acquireCtx, pool)
	if err != nil {
		return nil, fmt.Errorf("adquirir conexión: %w", err)
	}
	return conn, nil
}

func (p *LazyPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()
	return conn.Exec(ctx, sql, args...)
}

func (p *LazyPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &connRows{Rows: rows, conn: conn}, nil
}

func (p *LazyPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := p.acquire(ctx)
	if err != nil {
		return errRow{err: err}
	}
	return &connRow{row: conn.QueryRow(ctx, sql, args...), conn: conn}
}

func (p *LazyPool) Begin(ctx context.Context) (pgx.Tx, error) {
	conn, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, err
	}
	return &connTx{Tx: tx, conn: conn}, nil
}

// Ping para /health: abre el pool si aún no existe.
func (p *LazyPool) Ping(ctx context.Context) error {
	conn, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return conn.Ping(ctx)
}

// Close cierra el pool si llegó a crearse. Idempotente.
func (p *LazyPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// connRow devuelve la conexión al pool tras el Scan.
type connRow struct {
	row  pgx.Row
	conn *pgxpool.Conn
}

func (r *connRow) Scan(dest ...any) error {
	defer r.conn.Release()
	return r.row.Scan(dest...)
}

// connRows libera la conexión al agotarse o cerrarse las filas.
type connRows struct {
	pgx.Rows
	conn *pgxpool.Conn
}

func (r *connRows) Next() bool {
	if r.Rows.Next() {
		return true
	}
	r.release()
	return false
}

func (r *connRows) Close() {
	r.Rows.Close()
	r.release()
}

func (r *connRows) release() {
	if r.conn != nil {
		r.conn.Release()
		r.conn = nil
	}
}

// connTx libera la conexión al terminar la transacción, sea cual sea el resultado.
type connTx struct {
	pgx.Tx
	conn *pgxpool.Conn
}

func (t *connTx) Commit(ctx context.Context) error {
	err := t.Tx.Commit(ctx)
	t.release()
	return err
}

func (t *connTx) Rollback(ctx context.Context) error {
	err := t.Tx.Rollback(ctx)
	t.release()
	return err
}

func (t *connTx) release() {
	if t.conn != nil {
		t.conn.Release()
		t.conn = nil
	}
}
