package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ap-invoice-staging/internal/infrastructure/postgres"
)

func TestMigrate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS xxap_invoice_hdr_stg")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	assert.NoError(t, postgres.Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_Failure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("xxap_invoice_lines_stg")).
		WillReturnError(errors.New("permission denied for schema public"))

	err := postgres.Migrate(context.Background(), mock)
	assert.ErrorContains(t, err, "permission denied")
}
