package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/infrastructure/postgres"
	"github.com/jhoicas/ap-invoice-staging/pkg/config"
)

var erpConfig = config.ERPConfig{
	Procedure:  "xxap_invoice_interface_pkg.main_process",
	UserID:     0,
	RespID:     20639,
	RespApplID: 200,
}

func TestImportProcedure_BatchWarning(t *testing.T) {
	mock := newMock(t)
	proc, err := postgres.NewImportProcedure(mock, erpConfig, time.Second)
	require.NoError(t, err)

	batch := int64(100)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("set_config('erp.user_id', $1, true)")).
		WithArgs("0", "20639", "200", "204").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT retcode, errbuf, request_id FROM xxap_invoice_interface_pkg.main_process($1, $2, $3)")).
		WithArgs(int64(204), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"retcode", "errbuf", "request_id"}).
			AddRow(strPtr("1"), strPtr("2 of 5 validated"), nil))
	mock.ExpectCommit()

	out, err := proc.Invoke(context.Background(), entity.ProcessScope{OrgID: 204, BatchID: &batch})
	require.NoError(t, err)
	assert.Equal(t, "1", out.ReturnCode)
	require.NotNil(t, out.Message)
	assert.Equal(t, "2 of 5 validated", *out.Message)
	assert.Nil(t, out.TrackingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportProcedure_ReturnsTrackingID(t *testing.T) {
	mock := newMock(t)
	proc, err := postgres.NewImportProcedure(mock, erpConfig, time.Second)
	require.NoError(t, err)

	requestID := int64(7788123)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("set_config")).
		WithArgs(anyArgs(4)...).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("main_process($1, $2, $3)")).
		WithArgs(int64(204), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"retcode", "errbuf", "request_id"}).
			AddRow(strPtr("0"), nil, &requestID))
	mock.ExpectCommit()

	out, err := proc.Invoke(context.Background(), entity.ProcessScope{OrgID: 204})
	require.NoError(t, err)
	assert.Equal(t, "0", out.ReturnCode)
	assert.Nil(t, out.Message)
	require.NotNil(t, out.TrackingID)
	assert.Equal(t, requestID, *out.TrackingID)
}

func TestImportProcedure_NullReturnCodeIsCommitted(t *testing.T) {
	mock := newMock(t)
	proc, err := postgres.NewImportProcedure(mock, erpConfig, time.Second)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("set_config")).
		WithArgs(anyArgs(4)...).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(regexp.QuoteMeta("main_process($1, $2, $3)")).
		WithArgs(anyArgs(3)...).
		WillReturnRows(pgxmock.NewRows([]string{"retcode", "errbuf", "request_id"}).
			AddRow(nil, strPtr("ORA-06512 at line 42"), nil))
	mock.ExpectCommit()

	out, err := proc.Invoke(context.Background(), entity.ProcessScope{OrgID: 204})
	require.NoError(t, err)
	assert.Empty(t, out.ReturnCode)
	assert.Equal(t, staging.ResultError, staging.Classify(out.ReturnCode))
	require.NotNil(t, out.Message)
	assert.Equal(t, "ORA-06512 at line 42", *out.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportProcedure_FailuresReleaseConnection(t *testing.T) {
	t.Run("acquire", func(t *testing.T) {
		mock := newMock(t)
		proc, err := postgres.NewImportProcedure(mock, erpConfig, time.Second)
		require.NoError(t, err)

		mock.ExpectBegin().WillReturnError(errors.New("context deadline exceeded"))

		_, err = proc.Invoke(context.Background(), entity.ProcessScope{OrgID: 204})
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("session", func(t *testing.T) {
		mock := newMock(t)
		proc, err := postgres.NewImportProcedure(mock, erpConfig, time.Second)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("set_config")).WithArgs(anyArgs(4)...).WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		_, err = proc.Invoke(context.Background(), entity.ProcessScope{OrgID: 204})
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("procedure", func(t *testing.T) {
		mock := newMock(t)
		proc, err := postgres.NewImportProcedure(mock, erpConfig, time.Second)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("set_config")).WithArgs(anyArgs(4)...).WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(regexp.QuoteMeta("main_process")).WithArgs(anyArgs(3)...).WillReturnError(errors.New("function does not exist"))
		mock.ExpectRollback()

		_, err = proc.Invoke(context.Background(), entity.ProcessScope{OrgID: 204})
		require.Error(t, err)
		var pe *domain.PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "invoke import procedure", pe.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewImportProcedure_RejectsUnsafeName(t *testing.T) {
	mock := newMock(t)
	for _, name := range []string{"", "main_process; DROP TABLE x", "a.b.c", "1proc", "pkg.proc()"} {
		cfg := erpConfig
		cfg.Procedure = name
		_, err := postgres.NewImportProcedure(mock, cfg, time.Second)
		assert.Error(t, err, "nombre %q", name)
	}
}
