// Package bootstrap arma el grafo de dependencias compartido por la API y stagingctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/lifecycle"
	"github.com/jhoicas/ap-invoice-staging/internal/infrastructure/postgres"
	"github.com/jhoicas/ap-invoice-staging/pkg/config"
	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

// Components servicio de staging y el pool perezoso que lo respalda.
type Components struct {
	Pool     *postgres.LazyPool
	Invoices *staging.InvoiceService
}

// New no abre conexiones: el pool se crea en la primera consulta.
func New(cfg *config.Config, log *logger.Logger) (*Components, error) {
	pool := postgres.NewLazyPool(cfg.DB)

	procedure, err := postgres.NewImportProcedure(pool, cfg.ERP, cfg.DB.AcquireTimeout)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	engine := lifecycle.NewEngine()
	repo := postgres.NewStagingRepository(pool)
	orchestrator := staging.NewOrchestrator(procedure, repo, engine, log)
	invoices := staging.NewInvoiceService(repo, postgres.NewTxRunner(pool), engine, orchestrator, log)

	return &Components{Pool: pool, Invoices: invoices}, nil
}

// Migrate aplica el DDL de staging sobre el pool.
func (c *Components) Migrate(ctx context.Context) error {
	return postgres.Migrate(ctx, c.Pool)
}

// Close libera el pool; idempotente.
func (c *Components) Close() {
	c.Pool.Close()
}
