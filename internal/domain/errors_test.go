package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
)

func TestErrorTaxonomy_IsDistinguishable(t *testing.T) {
	validation := fmt.Errorf("create: %w", domain.NewValidationError("org_id", "requerido"))
	illegal := &domain.IllegalTransitionError{StagingID: 8, Flag: "X", State: "Cancelled", Reason: "no"}
	orphan := &domain.PersistenceError{Op: "insert line", Err: fmt.Errorf("%w: fk", domain.ErrOrphanLine)}
	external := &domain.ExternalProcedureError{ReturnCode: "2", Message: "Invalid Vendor Number"}

	assert.ErrorIs(t, validation, domain.ErrInvalidInput)
	assert.NotErrorIs(t, validation, domain.ErrPersistence)

	assert.ErrorIs(t, illegal, domain.ErrIllegalTransition)
	assert.NotErrorIs(t, illegal, domain.ErrNotFound)

	assert.ErrorIs(t, orphan, domain.ErrPersistence)
	assert.ErrorIs(t, orphan, domain.ErrOrphanLine)

	assert.ErrorIs(t, external, domain.ErrExternalProcedure)
	assert.Contains(t, external.Error(), "Invalid Vendor Number")
}

func TestValidationError_AsExtractsField(t *testing.T) {
	err := fmt.Errorf("wrap: %w", domain.NewValidationError("invoice_date", "formato YYYY-MM-DD"))

	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "invoice_date", ve.Field)
	assert.Equal(t, "invoice_date: formato YYYY-MM-DD", ve.Error())
}
