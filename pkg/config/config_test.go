package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ap-invoice-staging/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.DB.PoolMin)
	assert.Equal(t, 10, cfg.DB.PoolMax)
	assert.Equal(t, 30*time.Second, cfg.DB.AcquireTimeout)
	assert.Equal(t, "xxap_invoice_interface_pkg.main_process", cfg.ERP.Procedure)
	assert.Equal(t, int64(20639), cfg.ERP.RespID)
	assert.Equal(t, int64(200), cfg.ERP.RespApplID)
	assert.False(t, cfg.JWT.Enabled(), "sin JWT_SECRET la autenticación queda desactivada")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_POOL_MIN", "1")
	t.Setenv("DB_POOL_MAX", "4")
	t.Setenv("DB_ACQUIRE_TIMEOUT", "5s")
	t.Setenv("ERP_USER_ID", "1318")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "8081")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.DB.PoolMin)
	assert.Equal(t, 4, cfg.DB.PoolMax)
	assert.Equal(t, 5*time.Second, cfg.DB.AcquireTimeout)
	assert.Equal(t, int64(1318), cfg.ERP.UserID)
	assert.True(t, cfg.JWT.Enabled())
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTP.Addr())
}

func TestLoad_AcquireTimeoutInSeconds(t *testing.T) {
	t.Setenv("DB_ACQUIRE_TIMEOUT", "12")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.DB.AcquireTimeout)
}

func TestLoad_RejectsInvertedPoolBounds(t *testing.T) {
	t.Setenv("DB_POOL_MIN", "8")
	t.Setenv("DB_POOL_MAX", "4")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "apps", Password: "p@ss:w/rd", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://apps:p%40ss%3Aw%2Frd@db:5432/erp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
