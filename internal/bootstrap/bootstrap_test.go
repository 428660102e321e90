package bootstrap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ap-invoice-staging/internal/bootstrap"
	"github.com/jhoicas/ap-invoice-staging/pkg/config"
	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		DB: config.DBConfig{Host: "127.0.0.1", Port: 1, DBName: "erp", SSLMode: "disable", PoolMin: 0, PoolMax: 2},
		ERP: config.ERPConfig{
			Procedure:  "xxap_invoice_interface_pkg.main_process",
			RespID:     20639,
			RespApplID: 200,
		},
	}
}

func TestNew_DoesNotConnect(t *testing.T) {
	c, err := bootstrap.New(testConfig(), logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, c.Invoices)
	c.Close()
	c.Close()
}

func TestNew_RejectsUnsafeProcedure(t *testing.T) {
	cfg := testConfig()
	cfg.ERP.Procedure = "main_process; DROP TABLE xxap_invoice_hdr_stg"

	_, err := bootstrap.New(cfg, logger.Nop())
	assert.Error(t, err)
}
