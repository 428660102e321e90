package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/lifecycle"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
	"github.com/jhoicas/ap-invoice-staging/internal/infrastructure/postgres"
)

var statusColumns = []string{"staging_id", "org_id", "invoice_num", "process_flag", "error_message"}

func TestTxRunner_CancelCommitsHeaderThenLines(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)
	engine := lifecycle.NewEngine()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(5001)).
		WillReturnRows(pgxmock.NewRows(statusColumns).AddRow(int64(5001), int64(204), "INV-001", "N", nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE xxap_invoice_hdr_stg")).
		WithArgs(int64(5001), "X", "Cancelled by user").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE xxap_invoice_lines_stg")).
		WithArgs(int64(5001), "X", "Cancelled by user").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	var out *lifecycle.Outcome
	err := runner.RunStaging(context.Background(), func(flags repository.StagingFlagRepository) error {
		var err error
		out, err = engine.Cancel(context.Background(), flags, 5001)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.LinesAffected)
	assert.Equal(t, "INV-001", out.InvoiceNum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RejectionRollsBackWithoutWrites(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)
	engine := lifecycle.NewEngine()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(5001)).
		WillReturnRows(pgxmock.NewRows(statusColumns).AddRow(int64(5001), int64(204), "INV-001", "I", nil))
	mock.ExpectRollback()

	err := runner.RunStaging(context.Background(), func(flags repository.StagingFlagRepository) error {
		_, err := engine.Cancel(context.Background(), flags, 5001)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, "Cannot cancel invoice with status 'Interfaced'. Only New or Error status can be cancelled.", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_LinesFailureRollsBackHeader(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)
	engine := lifecycle.NewEngine()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(5001)).
		WillReturnRows(pgxmock.NewRows(statusColumns).AddRow(int64(5001), int64(204), "INV-001", "E", strPtr("Invalid account")))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE xxap_invoice_hdr_stg")).
		WithArgs(int64(5001), "X", "Cancelled by user").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE xxap_invoice_lines_stg")).
		WithArgs(int64(5001), "X", "Cancelled by user").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := runner.RunStaging(context.Background(), func(flags repository.StagingFlagRepository) error {
		_, err := engine.Cancel(context.Background(), flags, 5001)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_BeginFailure(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := runner.RunStaging(context.Background(), func(repository.StagingFlagRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, called)
}

