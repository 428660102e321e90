package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ap-invoice-staging/pkg/config"
)

// NewPool crea el pool contra la base del ERP. DATABASE_URL tiene prioridad sobre DB_HOST/DB_PORT/...;
// los límites salen de DB_POOL_MIN / DB_POOL_MAX.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.ConnConfig.DialFunc = dialPreferIPv4(net.DefaultResolver)

	poolConfig.MaxConns = int32(cfg.PoolMax)
	poolConfig.MinConns = int32(cfg.PoolMin)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// NUMERIC -> shopspring/decimal en todas las conexiones del pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

type ipResolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// dialPreferIPv4 marca tcp4 cuando el host tiene registro A; en contenedores sin IPv6 el dial
// por AAAA queda colgado hasta el timeout.
func dialPreferIPv4(r ipResolver) pgconn.DialFunc {
	d := &net.Dialer{KeepAlive: 5 * time.Minute}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		network, addr = dialTarget(ctx, r, network, addr)
		return d.DialContext(ctx, network, addr)
	}
}

// dialTarget sin A (o con literal IP, o socket unix) devuelve la dirección tal cual.
func dialTarget(ctx context.Context, r ipResolver, network, addr string) (string, string) {
	if network != "tcp" {
		return network, addr
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil || net.ParseIP(host) != nil {
		return network, addr
	}
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return network, addr
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return "tcp4", net.JoinHostPort(ip.String(), port)
		}
	}
	return network, addr
}
