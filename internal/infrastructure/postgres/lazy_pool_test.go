package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ap-invoice-staging/pkg/config"
)

func TestLazyPool_RetriesAfterFailedOpen(t *testing.T) {
	calls := 0
	p := NewLazyPool(config.DBConfig{AcquireTimeout: time.Second})
	p.open = func(ctx context.Context, _ config.DBConfig) (*pgxpool.Pool, error) {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline, "la apertura debe estar acotada por el acquire timeout")
		return nil, errors.New("connection refused")
	}

	_, err := p.Get(context.Background())
	require.Error(t, err)
	_, err = p.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestLazyPool_OpenIgnoresCallerCancellation(t *testing.T) {
	p := NewLazyPool(config.DBConfig{})
	var openErr error
	p.open = func(ctx context.Context, _ config.DBConfig) (*pgxpool.Pool, error) {
		openErr = ctx.Err()
		return nil, errors.New("unreachable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = p.Get(ctx)
	assert.NoError(t, openErr)
}

func TestLazyPool_CloseIsIdempotentAndFinal(t *testing.T) {
	calls := 0
	p := NewLazyPool(config.DBConfig{})
	p.open = func(context.Context, config.DBConfig) (*pgxpool.Pool, error) {
		calls++
		return nil, errors.New("unused")
	}

	p.Close()
	p.Close()

	_, err := p.Get(context.Background())
	assert.ErrorIs(t, err, ErrPoolClosed)
	assert.ErrorIs(t, p.Ping(context.Background()), ErrPoolClosed)

	var n int64
	assert.ErrorIs(t, p.QueryRow(context.Background(), "SELECT 1").Scan(&n), ErrPoolClosed)
	assert.Zero(t, calls)
}

func TestLazyPool_AcquireWaitIsBounded(t *testing.T) {
	p := NewLazyPool(config.DBConfig{AcquireTimeout: 50 * time.Millisecond})
	p.open = func(context.Context, config.DBConfig) (*pgxpool.Pool, error) {
		return new(pgxpool.Pool), nil
	}
	// Pool agotado: la adquisición sólo termina cuando vence su contexto.
	p.acquireConn = func(ctx context.Context, _ *pgxpool.Pool) (*pgxpool.Conn, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline, "la espera por conexión debe tener límite")
		<-ctx.Done()
		return nil, ctx.Err()
	}

	// Sin deadline, como el contexto de fiber en una petición HTTP.
	ctx := context.Background()
	calls := map[string]func() error{
		"exec": func() error {
			_, err := p.Exec(ctx, "UPDATE xxap_invoice_hdr_stg SET process_flag = 'X'")
			return err
		},
		"query": func() error {
			_, err := p.Query(ctx, "SELECT 1")
			return err
		},
		"query_row": func() error {
			var n int64
			return p.QueryRow(ctx, "SELECT 1").Scan(&n)
		},
		"begin": func() error {
			_, err := p.Begin(ctx)
			return err
		},
		"ping": func() error { return p.Ping(ctx) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			err := call()
			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Less(t, time.Since(start), 2*time.Second)
		})
	}
}
